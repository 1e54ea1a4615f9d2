package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sp(s string) *string   { return &s }
func ip(i int) *int         { return &i }
func fp(f float64) *float64 { return &f }

func baseRecord() DealRecord {
	return DealRecord{
		RegionCode:       "11110",
		AptName:          "경희궁의아침",
		DealDate:         "2024-01-05",
		DealAmount:       1_500_000_000,
		ExclusiveArea:    fp(84.97),
		Floor:            ip(12),
		Jibun:            "71",
		CancellationType: CancellationNone,
	}
}

func TestEqualsComparesPointerValuesNotAddresses(t *testing.T) {
	a := baseRecord()
	b := baseRecord()

	// Разные адреса, одинаковые значения
	assert.True(t, a.Equals(b))

	b.Floor = ip(13)
	assert.False(t, a.Equals(b))

	b.Floor = nil
	assert.False(t, a.Equals(b))
}

func TestEqualsSensitiveToEveryField(t *testing.T) {
	mutations := map[string]func(*DealRecord){
		"amount":       func(r *DealRecord) { r.DealAmount++ },
		"date":         func(r *DealRecord) { r.DealDate = "2024-01-06" },
		"cancellation": func(r *DealRecord) { r.CancellationType = CancellationCanceled },
		"registration": func(r *DealRecord) { r.RegistrationDate = sp("2024-02-01") },
		"apt id":       func(r *DealRecord) { r.AptID = sp("11110-101") },
		"land lease":   func(r *DealRecord) { r.IsLandLease = true },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			a := baseRecord()
			b := baseRecord()
			mutate(&b)
			assert.False(t, a.Equals(b))
		})
	}
}

func TestNaturalKeyIgnoresAmount(t *testing.T) {
	a := baseRecord()
	b := baseRecord()
	b.DealAmount = 9_999_999_999

	// Коррекция цены не должна менять ключ, иначе она станет вставкой
	assert.Equal(t, a.NaturalKey(), b.NaturalKey())
}

func TestNaturalKeyPrefersAptID(t *testing.T) {
	a := baseRecord()
	a.AptID = sp("11110-101")
	renamed := a
	renamed.AptName = "другое имя"

	assert.Equal(t, a.NaturalKey(), renamed.NaturalKey())

	// Без идентификатора источника идентичность падает на имя
	noID := baseRecord()
	otherName := baseRecord()
	otherName.AptName = "다른아파트"
	assert.NotEqual(t, noID.NaturalKey(), otherName.NaturalKey())
}

func TestNaturalKeyDistinguishesFloorAndArea(t *testing.T) {
	a := baseRecord()

	otherFloor := baseRecord()
	otherFloor.Floor = ip(2)
	assert.NotEqual(t, a.NaturalKey(), otherFloor.NaturalKey())

	otherArea := baseRecord()
	otherArea.ExclusiveArea = fp(59.88)
	assert.NotEqual(t, a.NaturalKey(), otherArea.NaturalKey())

	// nil и ноль не должны схлопываться в один ключ
	nilFloor := baseRecord()
	nilFloor.Floor = nil
	zeroFloor := baseRecord()
	zeroFloor.Floor = ip(0)
	assert.NotEqual(t, nilFloor.NaturalKey(), zeroFloor.NaturalKey())
}

func TestRunReportTotals(t *testing.T) {
	report := &RunReport{
		RunID:     "run-1",
		StartedAt: time.Now(),
	}

	report.Add(RegionResult{RegionCode: "11110", Success: true, Inserted: 3, Updated: 1})
	report.Add(RegionResult{RegionCode: "11140", Success: false, Error: "boom"})
	report.Add(RegionResult{RegionCode: "11170", Success: true, Inserted: 2})

	assert.Equal(t, 5, report.TotalInserted())
	assert.Equal(t, 1, report.TotalUpdated())
	assert.True(t, report.HasFailures())

	failed := report.FailedRegions()
	assert.Len(t, failed, 1)
	assert.Equal(t, "11140", failed[0].RegionCode)
}
