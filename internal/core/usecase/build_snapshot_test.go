package usecase

import (
	"context"
	"testing"
	"time"

	"apt-sync-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshotIteratesTrailingMonths(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewSnapshotBuilderUseCase(fetcher)

	anchor := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	uc.Build(context.Background(), "11110", 3, anchor)

	// Три последовательных месяца, заканчивая месяцем якоря
	require.Len(t, fetcher.calls, 3)
	assert.Equal(t, "11110|202401", fetcher.calls[0])
	assert.Equal(t, "11110|202402", fetcher.calls[1])
	assert.Equal(t, "11110|202403", fetcher.calls[2])
}

func TestBuildSnapshotMonthBoundary(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewSnapshotBuilderUseCase(fetcher)

	// 31-е число не должно ломать арифметику месяцев
	anchor := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	uc.Build(context.Background(), "11110", 2, anchor)

	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, "11110|202402", fetcher.calls[0])
	assert.Equal(t, "11110|202403", fetcher.calls[1])
}

func TestBuildSnapshotFailedMonthTreatedAsEmpty(t *testing.T) {
	a := makeDeal("A", "2024-02-10", 5000_0000, 84.97, 1)
	c := makeDeal("C", "2024-03-05", 9000_0000, 114.5, 10)

	fetcher := &fakeFetcher{
		responses: [][]domain.DealRecord{{a}, nil, {c}},
		errs:      []error{nil, domain.ErrSourceUnavailable, nil},
	}
	uc := NewSnapshotBuilderUseCase(fetcher)

	anchor := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	snapshot := uc.Build(context.Background(), "11110", 3, anchor)

	// Провал месяца — "нет наблюдений", соседние месяцы сохраняются
	require.Len(t, snapshot, 2)
	assert.Equal(t, "A", snapshot[0].AptName)
	assert.Equal(t, "C", snapshot[1].AptName)
}
