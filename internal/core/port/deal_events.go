package port

import (
	"apt-sync-service/internal/core/domain"
	"context"
)

// DealEventsPort — публикация событий синхронизации для downstream-сервисов.
// Ошибка публикации не должна приводить к отказу региона.
type DealEventsPort interface {
	PublishRegionSynced(ctx context.Context, event domain.RegionSyncedEvent) error
}
