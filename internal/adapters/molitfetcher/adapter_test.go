package molitfetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMolitFetcherAdapter(t *testing.T) {
	adapter, err := NewMolitFetcherAdapter("https://apis.data.go.kr/svc", "key", 2000, 5)
	require.NoError(t, err)
	assert.Equal(t, 2000, adapter.pageSize)
}

func TestNewMolitFetcherAdapterRequiresServiceKey(t *testing.T) {
	_, err := NewMolitFetcherAdapter("https://apis.data.go.kr/svc", "", 2000, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service key")
}

func TestNewMolitFetcherAdapterRejectsBadURL(t *testing.T) {
	_, err := NewMolitFetcherAdapter("not a url", "key", 2000, 10)
	require.Error(t, err)
}

func TestNewMolitFetcherAdapterClampsParallelism(t *testing.T) {
	// Нулевой или отрицательный параллелизм не должен ломать конструктор
	_, err := NewMolitFetcherAdapter("https://apis.data.go.kr/svc", "key", 2000, 0)
	require.NoError(t, err)
}
