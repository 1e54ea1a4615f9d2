package port

import (
	"apt-sync-service/internal/core/domain"
	"context"
)

// SourceFetcherPort — контракт для получения сделок из внешнего API.
// Один вызов = одна пара (регион, месяц). yearMonth в формате YYYYMM.
// После исчерпания попыток возвращает domain.ErrSourceUnavailable.
type SourceFetcherPort interface {
	FetchMonth(ctx context.Context, regionCode string, yearMonth string) ([]domain.DealRecord, error)
}
