package usecase

import (
	"context"

	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"
)

// ReconcilerUseCase — движок сверки двух снимков региона с хранилищем.
//
// Фаза A дешево отсеивает неизменившиеся сделки точным пополевым
// сравнением, не трогая хранилище. Фаза B резолвит оставшиеся записи
// через натуральный ключ против сохранённых строк окна lookback и
// классифицирует каждую текущую запись как UPDATE или INSERT.
// Удалений движок не выдает никогда.
type ReconcilerUseCase struct{}

func NewReconcilerUseCase() *ReconcilerUseCase {
	return &ReconcilerUseCase{}
}

// Reconcile строит минимальный план сходимости хранилища.
func (uc *ReconcilerUseCase) Reconcile(ctx context.Context, reference, current []domain.DealRecord, stored []domain.StoredDeal) domain.SyncPlan {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "Reconciler"})

	referenceResidual, currentResidual := eliminateExactMatches(reference, current)

	ucLogger.Debug("Phase A complete", port.Fields{
		"reference_total":    len(reference),
		"current_total":      len(current),
		"reference_residual": len(referenceResidual),
		"current_residual":   len(currentResidual),
	})

	plan := resolveAgainstStorage(referenceResidual, currentResidual, stored)

	ucLogger.Debug("Phase B complete", port.Fields{
		"updates": len(plan.Updates),
		"inserts": len(plan.Inserts),
	})
	return plan
}

// eliminateExactMatches — фаза A: мультимножественная разность снимков.
// Пары, совпадающие по всем полям (ключ + payload), выбывают из обоих
// рабочих наборов. При дубликатах значений побеждает первое оставшееся
// совпадение — принятая позиционная неоднозначность.
func eliminateExactMatches(reference, current []domain.DealRecord) (refResidual, curResidual []domain.DealRecord) {
	matched := make([]bool, len(current))

	for _, ref := range reference {
		found := false
		for i, cur := range current {
			if matched[i] {
				continue
			}
			if ref.Equals(cur) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			refResidual = append(refResidual, ref)
		}
	}

	for i, cur := range current {
		if !matched[i] {
			curResidual = append(curResidual, cur)
		}
	}
	return refResidual, curResidual
}

// resolveAgainstStorage — фаза B: резолв остатков через натуральный ключ.
//
// Сначала каждому остатку эталонного снимка подбирается сохранённая строка
// с точным пополевым совпадением — так остаток получает суррогатный id.
// Затем каждый остаток текущего снимка ищется по натуральному ключу среди
// остатков-с-id: найден → UPDATE этой строки (текущее наблюдение полностью
// замещает сохранённое), не найден → INSERT новой строки.
func resolveAgainstStorage(refResidual, curResidual []domain.DealRecord, stored []domain.StoredDeal) domain.SyncPlan {
	plan := domain.SyncPlan{}

	// Остатки эталона, для которых нашлась сохранённая строка.
	// Очередь на ключ: дубликаты ключа разбираются в порядке прихода.
	residualIDs := make(map[string][]int64)
	usedStored := make(map[int64]bool)

	for _, ref := range refResidual {
		for _, s := range stored {
			if usedStored[s.ID] {
				continue
			}
			if s.Record.Equals(ref) {
				usedStored[s.ID] = true
				key := ref.NaturalKey()
				residualIDs[key] = append(residualIDs[key], s.ID)
				break
			}
		}
		// Совпадения нет — эталонная запись сама не была сохранена
		// (защитный случай), остаётся неразрешённой
	}

	for _, cur := range curResidual {
		key := cur.NaturalKey()
		if ids := residualIDs[key]; len(ids) > 0 {
			plan.Updates = append(plan.Updates, domain.DealUpdate{ID: ids[0], Record: cur})
			residualIDs[key] = ids[1:]
		} else {
			plan.Inserts = append(plan.Inserts, cur)
		}
	}

	// Оставшиеся остатки-с-id просто отбрасываются: это наблюдения,
	// не повторившиеся в текущем снимке; их строки остаются нетронутыми
	return plan
}
