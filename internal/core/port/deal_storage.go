package port

import (
	"apt-sync-service/internal/core/domain"
	"context"
	"time"
)

// DealStoragePort — контракт хранилища сделок.
type DealStoragePort interface {
	// GetDealsInWindow возвращает сохранённые строки региона,
	// у которых дата сделки попадает в окно [from, to].
	GetDealsInWindow(ctx context.Context, regionCode string, from, to time.Time) ([]domain.StoredDeal, error)

	// ApplyPlan применяет план в одной транзакции: UPDATE по суррогатному id,
	// безусловный INSERT новых строк. Удалений не бывает.
	ApplyPlan(ctx context.Context, plan domain.SyncPlan) (*domain.ApplyStats, error)
}
