package usecases_port

import (
	"apt-sync-service/internal/core/domain"
	"context"
)

// RunSyncPort — один полный прогон планировщика по всем регионам
type RunSyncPort interface {
	Execute(ctx context.Context) (*domain.RunReport, error)
}
