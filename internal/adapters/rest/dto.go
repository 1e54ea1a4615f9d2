package rest

import "apt-sync-service/internal/core/domain"

// RegionResultDTO — итог региона в HTTP-ответе
type RegionResultDTO struct {
	RegionCode string `json:"region_code"`
	Success    bool   `json:"success"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Error      string `json:"error,omitempty"`
}

// RunReportDTO — ответ на запуск прогона
type RunReportDTO struct {
	RunID         string            `json:"run_id"`
	RegionsTotal  int               `json:"regions_total"`
	RegionsFailed int               `json:"regions_failed"`
	TotalInserted int               `json:"total_inserted"`
	TotalUpdated  int               `json:"total_updated"`
	Results       []RegionResultDTO `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toRunReportDTO(report *domain.RunReport) RunReportDTO {
	dto := RunReportDTO{
		RunID:         report.RunID,
		RegionsTotal:  len(report.Results),
		RegionsFailed: len(report.FailedRegions()),
		TotalInserted: report.TotalInserted(),
		TotalUpdated:  report.TotalUpdated(),
	}
	for _, res := range report.Results {
		dto.Results = append(dto.Results, RegionResultDTO{
			RegionCode: res.RegionCode,
			Success:    res.Success,
			Inserted:   res.Inserted,
			Updated:    res.Updated,
			Error:      res.Error,
		})
	}
	return dto
}
