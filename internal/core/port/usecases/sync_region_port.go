package usecases_port

import (
	"apt-sync-service/internal/core/domain"
	"context"
)

// SyncRegionPort — полный цикл синхронизации одного региона:
// два снимка, сверка с хранилищем, применение плана.
type SyncRegionPort interface {
	Execute(ctx context.Context, regionCode string) (*domain.ApplyStats, error)
}
