package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"
	usecases_port "apt-sync-service/internal/core/port/usecases"

	"github.com/google/uuid"
)

// RunSyncConfig — параметры планировщика регионов
type RunSyncConfig struct {
	RegionCodes []string
	BatchSize   int
	BatchDelay  time.Duration
}

// RunSyncUseCase гонит пайплайн по всем регионам батчами фиксированного
// размера: внутри батча регионы идут параллельно, батчи — строго
// последовательно, с паузой между ними ради бюджета запросов источника.
// Отказ региона изолирован: он попадает в отчет и не трогает соседей.
type RunSyncUseCase struct {
	syncRegion usecases_port.SyncRegionPort
	config     RunSyncConfig
}

func NewRunSyncUseCase(syncRegion usecases_port.SyncRegionPort, config RunSyncConfig) *RunSyncUseCase {
	return &RunSyncUseCase{
		syncRegion: syncRegion,
		config:     config,
	}
}

// Execute выполняет один полный прогон и возвращает агрегированный отчет
func (uc *RunSyncUseCase) Execute(ctx context.Context) (*domain.RunReport, error) {
	runID := uuid.New().String()

	baseLogger := contextkeys.LoggerFromContext(ctx)
	runLogger := baseLogger.WithFields(port.Fields{
		"use_case": "RunSync",
		"run_id":   runID,
	})

	report := &domain.RunReport{
		RunID:     runID,
		StartedAt: time.Now(),
	}

	regions := uc.config.RegionCodes
	batchSize := uc.config.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	runLogger.Info("Sync run started", port.Fields{
		"regions":    len(regions),
		"batch_size": batchSize,
	})

	for start := 0; start < len(regions); start += batchSize {
		end := start + batchSize
		if end > len(regions) {
			end = len(regions)
		}
		batch := regions[start:end]

		runLogger.Debug("Processing batch", port.Fields{
			"batch_index": start / batchSize,
			"batch_len":   len(batch),
		})

		// Все регионы батча параллельно, результаты через буферизованный канал
		var wg sync.WaitGroup
		resultsChan := make(chan domain.RegionResult, len(batch))

		for _, regionCode := range batch {
			wg.Add(1)
			go func(region string) {
				defer wg.Done()

				regionLogger := runLogger.WithFields(port.Fields{"region_code": region})

				// Паника в пайплайне региона не должна ронять процесс:
				// она превращается в отказ этого региона, соседи продолжают
				defer func() {
					if rec := recover(); rec != nil {
						regionLogger.Error("Region sync panicked", nil, port.Fields{"panic": fmt.Sprintf("%v", rec)})
						resultsChan <- domain.RegionResult{
							RegionCode: region,
							Success:    false,
							Error:      fmt.Sprintf("panic: %v", rec),
						}
					}
				}()

				regionCtx := contextkeys.ContextWithLogger(ctx, regionLogger)
				regionCtx = contextkeys.ContextWithTraceID(regionCtx, runID)

				stats, err := uc.syncRegion.Execute(regionCtx, region)
				if err != nil {
					regionLogger.Error("Region sync failed", err, nil)
					resultsChan <- domain.RegionResult{
						RegionCode: region,
						Success:    false,
						Error:      err.Error(),
					}
					return
				}

				resultsChan <- domain.RegionResult{
					RegionCode: region,
					Success:    true,
					Inserted:   stats.Inserted,
					Updated:    stats.Updated,
				}
			}(regionCode)
		}

		wg.Wait()
		close(resultsChan)

		for result := range resultsChan {
			report.Add(result)
		}

		// Пауза между батчами, после последнего не нужна
		if end < len(regions) && uc.config.BatchDelay > 0 {
			select {
			case <-time.After(uc.config.BatchDelay):
			case <-ctx.Done():
				runLogger.Warn("Sync run canceled between batches", nil)
				report.FinishedAt = time.Now()
				return report, ctx.Err()
			}
		}
	}

	report.FinishedAt = time.Now()

	failed := report.FailedRegions()
	runLogger.Info("Sync run finished", port.Fields{
		"regions_total":  len(regions),
		"regions_failed": len(failed),
		"total_inserted": report.TotalInserted(),
		"total_updated":  report.TotalUpdated(),
		"duration_ms":    report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	})
	for _, f := range failed {
		runLogger.Error("Region failed", nil, port.Fields{
			"region_code": f.RegionCode,
			"error":       f.Error,
		})
	}

	return report, nil
}
