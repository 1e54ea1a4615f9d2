package usecase

import (
	"context"
	"fmt"
	"time"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"
	"apt-sync-service/pkg/retry"
)

// SyncRegionConfig — параметры пайплайна одного региона
type SyncRegionConfig struct {
	MonthCount     int
	LookbackMonths int
	Retry          retry.Config
	// Now позволяет подменять часы в тестах; nil → time.Now
	Now func() time.Time
}

// SyncRegionUseCase — пайплайн региона: два снимка (эталонный, якорь
// "вчера", и текущий, якорь "сегодня"), сверка с окном lookback,
// применение плана с повторами записи.
type SyncRegionUseCase struct {
	snapshots  *SnapshotBuilderUseCase
	reconciler *ReconcilerUseCase
	storage    port.DealStoragePort
	events     port.DealEventsPort // может быть nil, если события выключены
	config     SyncRegionConfig
}

func NewSyncRegionUseCase(
	snapshots *SnapshotBuilderUseCase,
	reconciler *ReconcilerUseCase,
	storage port.DealStoragePort,
	events port.DealEventsPort,
	config SyncRegionConfig,
) *SyncRegionUseCase {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &SyncRegionUseCase{
		snapshots:  snapshots,
		reconciler: reconciler,
		storage:    storage,
		events:     events,
		config:     config,
	}
}

// Execute выполняет полный цикл синхронизации одного региона
func (uc *SyncRegionUseCase) Execute(ctx context.Context, regionCode string) (*domain.ApplyStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SyncRegion",
		"region_code": regionCode,
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	now := uc.config.Now()
	referenceAnchor := now.AddDate(0, 0, -1)

	// Два снимка с независимыми якорями: сделка, выпавшая из окна между
	// якорями, молча выпадает из сравнения — принятое граничное условие
	reference := uc.snapshots.Build(ctx, regionCode, uc.config.MonthCount, referenceAnchor)
	current := uc.snapshots.Build(ctx, regionCode, uc.config.MonthCount, now)

	lookbackFrom := now.AddDate(0, -uc.config.LookbackMonths, 0)
	stored, err := uc.storage.GetDealsInWindow(ctx, regionCode, lookbackFrom, now)
	if err != nil {
		ucLogger.Error("Failed to load lookback window", err, nil)
		return nil, fmt.Errorf("region %s: lookback read failed: %w", regionCode, err)
	}

	plan := uc.reconciler.Reconcile(ctx, reference, current, stored)
	if plan.IsEmpty() {
		ucLogger.Info("Region already converged, nothing to apply.", nil)
		return &domain.ApplyStats{}, nil
	}

	var stats *domain.ApplyStats
	err = uc.config.Retry.Do(ctx, ucLogger, "apply sync plan", func() error {
		var applyErr error
		stats, applyErr = uc.storage.ApplyPlan(ctx, plan)
		return applyErr
	})
	if err != nil {
		ucLogger.Error("Failed to apply sync plan after retries", err, nil)
		return nil, fmt.Errorf("region %s: %w", regionCode, err)
	}

	ucLogger.Info("Region synchronized", port.Fields{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
	})

	if uc.events != nil && (stats.Inserted > 0 || stats.Updated > 0) {
		// run_id прогона приходит через trace-контекст планировщика
		event := domain.RegionSyncedEvent{
			RunID:      contextkeys.TraceIDFromContext(ctx),
			RegionCode: regionCode,
			Inserted:   stats.Inserted,
			Updated:    stats.Updated,
			SyncedAt:   uc.config.Now(),
		}
		// Ошибка публикации не роняет регион: хранилище уже сошлось
		if pubErr := uc.events.PublishRegionSynced(ctx, event); pubErr != nil {
			ucLogger.Error("Failed to publish region.synced event", pubErr, nil)
		}
	}

	return stats, nil
}
