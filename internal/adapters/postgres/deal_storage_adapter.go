package postgres

import (
	"context"
	"fmt"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDealStorageAdapter реализует port.DealStoragePort поверх pgxpool.
// Пул безопасно разделяется конкурентными воркерами регионов.
type PostgresDealStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresDealStorageAdapter(pool *pgxpool.Pool) *PostgresDealStorageAdapter {
	return &PostgresDealStorageAdapter{pool: pool}
}

var dealColumns = []string{
	"region_code", "apt_id", "apt_name", "deal_date", "deal_amount",
	"exclusive_area", "floor", "jibun", "building_dong", "estate_agent_region",
	"registration_date", "cancellation_type", "cancellation_date",
	"deal_type", "seller_type", "buyer_type", "is_land_lease",
}

func dealRow(rec domain.DealRecord) []interface{} {
	return []interface{}{
		rec.RegionCode, rec.AptID, rec.AptName, rec.DealDate, rec.DealAmount,
		rec.ExclusiveArea, rec.Floor, rec.Jibun, rec.BuildingDong, rec.EstateAgentRegion,
		rec.RegistrationDate, string(rec.CancellationType), rec.CancellationDate,
		rec.DealType, rec.SellerType, rec.BuyerType, rec.IsLandLease,
	}
}

// ApplyPlan применяет план региона в одной транзакции:
// сначала UPDATE по суррогатным id, затем массовый INSERT через COPY.
// Коммит только после успеха всех строк — результат региона атомарен.
func (a *PostgresDealStorageAdapter) ApplyPlan(ctx context.Context, plan domain.SyncPlan) (*domain.ApplyStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresDealStorageAdapter",
		"method":    "ApplyPlan",
		"updates":   len(plan.Updates),
		"inserts":   len(plan.Inserts),
	})

	stats := &domain.ApplyStats{}
	if plan.IsEmpty() {
		repoLogger.Debug("Empty plan, nothing to apply.", nil)
		return stats, nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	updateSQL := `
		UPDATE apt_deals SET
			region_code = $1, apt_id = $2, apt_name = $3, deal_date = $4, deal_amount = $5,
			exclusive_area = $6, floor = $7, jibun = $8, building_dong = $9, estate_agent_region = $10,
			registration_date = $11, cancellation_type = $12, cancellation_date = $13,
			deal_type = $14, seller_type = $15, buyer_type = $16, is_land_lease = $17,
			updated_at = NOW()
		WHERE id = $18;
	`

	for _, upd := range plan.Updates {
		args := append(dealRow(upd.Record), upd.ID)
		if _, err := tx.Exec(ctx, updateSQL, args...); err != nil {
			repoLogger.Error("Failed to update deal row", err, port.Fields{"deal_id": upd.ID})
			return nil, fmt.Errorf("%w: failed to update deal %d: %v", domain.ErrPersistence, upd.ID, err)
		}
		stats.Updated++
	}

	if len(plan.Inserts) > 0 {
		rows := make([][]interface{}, 0, len(plan.Inserts))
		for _, rec := range plan.Inserts {
			rows = append(rows, dealRow(rec))
		}

		// created_at/updated_at не перечислены — их проставляют default'ы таблицы
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{"apt_deals"}, dealColumns, pgx.CopyFromRows(rows))
		if err != nil {
			repoLogger.Error("Failed to copy new deal rows", err, nil)
			return nil, fmt.Errorf("%w: failed to insert deals: %v", domain.ErrPersistence, err)
		}
		stats.Inserted = int(copied)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("%w: failed to commit: %v", domain.ErrPersistence, err)
	}

	repoLogger.Info("Sync plan applied", port.Fields{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
	})
	return stats, nil
}
