package usecase

import (
	"context"
	"time"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"
)

// SnapshotBuilderUseCase собирает снимок региона: нормализованные сделки
// за monthCount последовательных месяцев, заканчивая месяцем якорной даты.
type SnapshotBuilderUseCase struct {
	fetcher port.SourceFetcherPort
}

func NewSnapshotBuilderUseCase(fetcher port.SourceFetcherPort) *SnapshotBuilderUseCase {
	return &SnapshotBuilderUseCase{fetcher: fetcher}
}

// Build собирает снимок. Провал месяца — это "нет наблюдений", не ошибка:
// отсутствие данных никогда не перезапишет присутствие, регион продолжает прогон.
func (uc *SnapshotBuilderUseCase) Build(ctx context.Context, regionCode string, monthCount int, anchor time.Time) []domain.DealRecord {
	logger := contextkeys.LoggerFromContext(ctx)
	buildLogger := logger.WithFields(port.Fields{
		"use_case":    "SnapshotBuilder",
		"region_code": regionCode,
		"anchor":      anchor.Format("2006-01-02"),
	})

	var snapshot []domain.DealRecord

	// Нормализуем якорь на первое число месяца, чтобы арифметика
	// месяцев не перескакивала на 31-х числах
	anchorMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())

	for i := monthCount - 1; i >= 0; i-- {
		yearMonth := anchorMonth.AddDate(0, -i, 0).Format("200601")

		records, err := uc.fetcher.FetchMonth(ctx, regionCode, yearMonth)
		if err != nil {
			buildLogger.Warn("Month fetch failed, treating as empty", port.Fields{
				"year_month": yearMonth,
				"error":      err.Error(),
			})
			continue
		}

		snapshot = append(snapshot, records...)
	}

	buildLogger.Debug("Snapshot assembled", port.Fields{
		"months":  monthCount,
		"records": len(snapshot),
	})
	return snapshot
}
