package usecase

import (
	"context"
	"testing"

	"apt-sync-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

// makeDeal — базовая запись для тестов сверки
func makeDeal(aptName, dealDate string, amount int64, area float64, floor int) domain.DealRecord {
	return domain.DealRecord{
		RegionCode:       "11110",
		AptName:          aptName,
		DealDate:         dealDate,
		DealAmount:       amount,
		ExclusiveArea:    floatPtr(area),
		Floor:            intPtr(floor),
		Jibun:            "1-1",
		CancellationType: domain.CancellationNone,
	}
}

func TestReconcileNewRecordProducesSingleInsert(t *testing.T) {
	uc := NewReconcilerUseCase()

	a := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	b := makeDeal("B", "2024-01-02", 7000_0000, 59.88, 3)

	reference := []domain.DealRecord{a}
	current := []domain.DealRecord{a, b}

	plan := uc.Reconcile(context.Background(), reference, current, nil)

	require.Len(t, plan.Inserts, 1)
	assert.Empty(t, plan.Updates)
	assert.Equal(t, "B", plan.Inserts[0].AptName)
}

func TestReconcilePriceCorrectionProducesUpdate(t *testing.T) {
	uc := NewReconcilerUseCase()

	old := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	corrected := makeDeal("A", "2024-01-01", 5500_0000, 84.97, 1)

	stored := []domain.StoredDeal{{ID: 42, Record: old}}

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{old},
		[]domain.DealRecord{corrected},
		stored,
	)

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Inserts)
	// Суррогатный id сохраняется, сумма обновляется
	assert.Equal(t, int64(42), plan.Updates[0].ID)
	assert.Equal(t, int64(5500_0000), plan.Updates[0].Record.DealAmount)
}

func TestReconcileEmptySnapshots(t *testing.T) {
	uc := NewReconcilerUseCase()

	plan := uc.Reconcile(context.Background(), nil, nil, nil)

	assert.True(t, plan.IsEmpty())
}

func TestReconcileIdenticalSnapshotsIdempotent(t *testing.T) {
	uc := NewReconcilerUseCase()

	a := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	b := makeDeal("B", "2024-01-02", 7000_0000, 59.88, 3)

	snapshot := []domain.DealRecord{a, b}
	stored := []domain.StoredDeal{{ID: 1, Record: a}, {ID: 2, Record: b}}

	plan := uc.Reconcile(context.Background(), snapshot, snapshot, stored)

	// Повторный прогон без изменений источника не дает ни одной операции
	assert.True(t, plan.IsEmpty())
}

func TestReconcileReferenceOnlyRecordNeverDeleted(t *testing.T) {
	uc := NewReconcilerUseCase()

	a := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	stored := []domain.StoredDeal{{ID: 10, Record: a}}

	plan := uc.Reconcile(context.Background(), []domain.DealRecord{a}, nil, stored)

	// Запись выпала из текущего снимка: ни удаления, ни обновления
	assert.True(t, plan.IsEmpty())
}

func TestReconcileCancellationFlipProducesUpdate(t *testing.T) {
	uc := NewReconcilerUseCase()

	active := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	canceled := active
	canceled.CancellationType = domain.CancellationCanceled
	canceled.CancellationDate = strPtr("2024-01-15")

	stored := []domain.StoredDeal{{ID: 7, Record: active}}

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{active},
		[]domain.DealRecord{canceled},
		stored,
	)

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Inserts)
	assert.Equal(t, int64(7), plan.Updates[0].ID)
	assert.Equal(t, domain.CancellationCanceled, plan.Updates[0].Record.CancellationType)
	require.NotNil(t, plan.Updates[0].Record.CancellationDate)
	assert.Equal(t, "2024-01-15", *plan.Updates[0].Record.CancellationDate)
}

func TestReconcileRegistrationDateArrivalProducesUpdate(t *testing.T) {
	uc := NewReconcilerUseCase()

	unregistered := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	registered := unregistered
	registered.RegistrationDate = strPtr("2024-02-01")

	stored := []domain.StoredDeal{{ID: 3, Record: unregistered}}

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{unregistered},
		[]domain.DealRecord{registered},
		stored,
	)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, int64(3), plan.Updates[0].ID)
}

func TestReconcileUnmatchedReferenceResidualIsDropped(t *testing.T) {
	uc := NewReconcilerUseCase()

	// Эталонная запись, которой нет ни в хранилище, ни в текущем снимке:
	// защитный случай, остаток просто отбрасывается
	ghost := makeDeal("Ghost", "2024-01-01", 5000_0000, 84.97, 1)
	b := makeDeal("B", "2024-01-02", 7000_0000, 59.88, 3)

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{ghost},
		[]domain.DealRecord{b},
		nil,
	)

	require.Len(t, plan.Inserts, 1)
	assert.Empty(t, plan.Updates)
	assert.Equal(t, "B", plan.Inserts[0].AptName)
}

func TestReconcileDuplicateValuedRecords(t *testing.T) {
	uc := NewReconcilerUseCase()

	// Две реально разные сделки с одинаковыми полями: позиционное
	// сопоставление, обе должны быть вставлены ровно по одному разу
	dup := makeDeal("Twin", "2024-01-03", 6000_0000, 84.97, 5)

	plan := uc.Reconcile(context.Background(),
		nil,
		[]domain.DealRecord{dup, dup},
		nil,
	)

	assert.Len(t, plan.Inserts, 2)
	assert.Empty(t, plan.Updates)
}

func TestReconcileDuplicateKeyUpdatesConsumeDistinctRows(t *testing.T) {
	uc := NewReconcilerUseCase()

	dup := makeDeal("Twin", "2024-01-03", 6000_0000, 84.97, 5)
	changedA := dup
	changedA.DealAmount = 6100_0000
	changedB := dup
	changedB.DealAmount = 6200_0000

	stored := []domain.StoredDeal{
		{ID: 21, Record: dup},
		{ID: 22, Record: dup},
	}

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{dup, dup},
		[]domain.DealRecord{changedA, changedB},
		stored,
	)

	require.Len(t, plan.Updates, 2)
	assert.Empty(t, plan.Inserts)
	// Каждое обновление нацелено на свою строку, id не переиспользуется
	assert.NotEqual(t, plan.Updates[0].ID, plan.Updates[1].ID)
}

func TestReconcileAptIdentityPrefersSourceID(t *testing.T) {
	uc := NewReconcilerUseCase()

	// Имя сменилось, но идентификатор источника тот же: это та же сделка
	old := makeDeal("Old Name", "2024-01-01", 5000_0000, 84.97, 1)
	old.AptID = strPtr("11110-101")
	renamed := makeDeal("New Name", "2024-01-01", 5000_0000, 84.97, 1)
	renamed.AptID = strPtr("11110-101")

	stored := []domain.StoredDeal{{ID: 9, Record: old}}

	plan := uc.Reconcile(context.Background(),
		[]domain.DealRecord{old},
		[]domain.DealRecord{renamed},
		stored,
	)

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Inserts)
	assert.Equal(t, int64(9), plan.Updates[0].ID)
	assert.Equal(t, "New Name", plan.Updates[0].Record.AptName)
}

func TestEliminateExactMatchesMultisetSemantics(t *testing.T) {
	a := makeDeal("A", "2024-01-01", 5000_0000, 84.97, 1)
	b := makeDeal("B", "2024-01-02", 7000_0000, 59.88, 3)

	// В эталоне две копии A, в текущем одна: одна копия должна остаться
	refResidual, curResidual := eliminateExactMatches(
		[]domain.DealRecord{a, a, b},
		[]domain.DealRecord{a, b},
	)

	require.Len(t, refResidual, 1)
	assert.True(t, refResidual[0].Equals(a))
	assert.Empty(t, curResidual)
}
