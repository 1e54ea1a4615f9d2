package molitfetcher

import (
	"testing"

	"apt-sync-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDealItemBasic(t *testing.T) {
	item := molitDealItem{
		AptSeq:        "11110-101",
		AptName:       " 경희궁의아침 ",
		DealYear:      "2024",
		DealMonth:     "1",
		DealDay:       "5",
		DealAmount:    " 150,000 ",
		ExclusiveArea: "84.97",
		Floor:         "12",
		Jibun:         "71",
	}

	record, err := mapDealItem("11110", item)
	require.NoError(t, err)

	assert.Equal(t, "11110", record.RegionCode)
	require.NotNil(t, record.AptID)
	assert.Equal(t, "11110-101", *record.AptID)
	assert.Equal(t, "경희궁의아침", record.AptName)
	assert.Equal(t, "2024-01-05", record.DealDate)
	// 150,000 만원 → 1,500,000,000 вон
	assert.Equal(t, int64(1_500_000_000), record.DealAmount)
	require.NotNil(t, record.ExclusiveArea)
	assert.Equal(t, 84.97, *record.ExclusiveArea)
	require.NotNil(t, record.Floor)
	assert.Equal(t, 12, *record.Floor)
	assert.Equal(t, domain.CancellationNone, record.CancellationType)
	assert.False(t, record.IsLandLease)
}

func TestMapDealItemMissingNumericFieldsBecomeNil(t *testing.T) {
	item := molitDealItem{
		AptName:    "테스트",
		DealYear:   "2024",
		DealMonth:  "2",
		DealDay:    "10",
		DealAmount: "5,000",
		// этаж и площадь отсутствуют
	}

	record, err := mapDealItem("11110", item)
	require.NoError(t, err)

	// nil, а не ноль: иначе были бы ложные совпадения ключа
	assert.Nil(t, record.Floor)
	assert.Nil(t, record.ExclusiveArea)
	assert.Nil(t, record.AptID)
	assert.Nil(t, record.RegistrationDate)
}

func TestMapDealItemCancellation(t *testing.T) {
	item := molitDealItem{
		AptName:        "테스트",
		DealYear:       "2024",
		DealMonth:      "3",
		DealDay:        "1",
		DealAmount:     "70,000",
		CancelDealType: "O",
		CancelDealDay:  "2024.03.15",
	}

	record, err := mapDealItem("11110", item)
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationCanceled, record.CancellationType)
	require.NotNil(t, record.CancellationDate)
	assert.Equal(t, "2024-03-15", *record.CancellationDate)
}

func TestMapDealItemLandLease(t *testing.T) {
	item := molitDealItem{
		AptName:          "테스트",
		DealYear:         "2024",
		DealMonth:        "3",
		DealDay:          "2",
		DealAmount:       "30,000",
		LandLeaseholdGbn: "Y",
	}

	record, err := mapDealItem("11110", item)
	require.NoError(t, err)
	assert.True(t, record.IsLandLease)
}

func TestMapDealItemRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		item molitDealItem
	}{
		{"empty name", molitDealItem{DealYear: "2024", DealMonth: "1", DealDay: "1", DealAmount: "1,000"}},
		{"bad amount", molitDealItem{AptName: "A", DealYear: "2024", DealMonth: "1", DealDay: "1", DealAmount: "abc"}},
		{"bad month", molitDealItem{AptName: "A", DealYear: "2024", DealMonth: "13", DealDay: "1", DealAmount: "1,000"}},
		{"empty amount", molitDealItem{AptName: "A", DealYear: "2024", DealMonth: "1", DealDay: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapDealItem("11110", tt.item)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string // "" означает nil
	}{
		{"2024.01.05", "2024-01-05"},
		{"20240105", "2024-01-05"},
		{"24.01.05", "2024-01-05"},
		{"2024.1.5", "2024-01-05"},
		{" 2024.01.05 ", "2024-01-05"},
		{"", ""},
		{"garbage", ""},
		{"2024.13.05", ""},
		{"2024-01-05x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := normalizeDate(tt.raw)
			if tt.want == "" {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tt.want, *got)
			}
		})
	}
}

func TestParseDealAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1,500", 15_000_000, false},
		{"150,000", 1_500_000_000, false},
		{" 82,500 ", 825_000_000, false},
		{"500", 5_000_000, false},
		{"", 0, true},
		{"12,a00", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDealAmount(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
