package postgres

import (
	"context"
	"fmt"
	"time"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"
)

// GetDealsInWindow возвращает сохранённые сделки региона, дата которых
// попадает в окно [from, to]. Используется фазой B для резолва суррогатных id.
func (a *PostgresDealStorageAdapter) GetDealsInWindow(ctx context.Context, regionCode string, from, to time.Time) ([]domain.StoredDeal, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresDealStorageAdapter",
		"method":      "GetDealsInWindow",
		"region_code": regionCode,
	})

	query := `
		SELECT
			id, region_code, apt_id, apt_name, to_char(deal_date, 'YYYY-MM-DD'), deal_amount,
			exclusive_area, floor, jibun, building_dong, estate_agent_region,
			registration_date, cancellation_type, cancellation_date,
			deal_type, seller_type, buyer_type, is_land_lease,
			created_at, updated_at
		FROM apt_deals
		WHERE region_code = $1
		  AND deal_date BETWEEN $2 AND $3;
	`

	repoLogger.Debug("Querying lookback window.", port.Fields{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	})

	rows, err := a.pool.Query(ctx, query, regionCode, from, to)
	if err != nil {
		repoLogger.Error("Failed to query lookback window", err, nil)
		return nil, fmt.Errorf("%w: failed to query lookback window: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var deals []domain.StoredDeal
	for rows.Next() {
		var deal domain.StoredDeal
		var cancellation string

		if err := rows.Scan(
			&deal.ID, &deal.Record.RegionCode, &deal.Record.AptID, &deal.Record.AptName,
			&deal.Record.DealDate, &deal.Record.DealAmount,
			&deal.Record.ExclusiveArea, &deal.Record.Floor, &deal.Record.Jibun,
			&deal.Record.BuildingDong, &deal.Record.EstateAgentRegion,
			&deal.Record.RegistrationDate, &cancellation, &deal.Record.CancellationDate,
			&deal.Record.DealType, &deal.Record.SellerType, &deal.Record.BuyerType,
			&deal.Record.IsLandLease, &deal.CreatedAt, &deal.UpdatedAt,
		); err != nil {
			repoLogger.Error("Failed to scan stored deal", err, nil)
			return nil, fmt.Errorf("%w: failed to scan stored deal: %v", domain.ErrPersistence, err)
		}

		deal.Record.CancellationType = domain.CancellationType(cancellation)
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: lookback rows iteration: %v", domain.ErrPersistence, err)
	}

	repoLogger.Debug("Lookback window loaded.", port.Fields{"stored_deals": len(deals)})
	return deals, nil
}
