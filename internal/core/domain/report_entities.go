package domain

import "time"

// RegionResult — итог обработки одного региона за прогон
type RegionResult struct {
	RegionCode string `json:"region_code"`
	Success    bool   `json:"success"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Error      string `json:"error,omitempty"`
}

// RunReport — агрегат по всем регионам одного прогона.
// Живет только в памяти процесса: логируется и выбрасывается.
type RunReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []RegionResult `json:"results"`
}

func (r *RunReport) Add(result RegionResult) {
	r.Results = append(r.Results, result)
}

func (r *RunReport) TotalInserted() int {
	total := 0
	for _, res := range r.Results {
		total += res.Inserted
	}
	return total
}

func (r *RunReport) TotalUpdated() int {
	total := 0
	for _, res := range r.Results {
		total += res.Updated
	}
	return total
}

// FailedRegions возвращает регионы, завершившиеся с ошибкой
func (r *RunReport) FailedRegions() []RegionResult {
	var failed []RegionResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// HasFailures — был ли хотя бы один регион с ошибкой (код выхода процесса)
func (r *RunReport) HasFailures() bool {
	return len(r.FailedRegions()) > 0
}
