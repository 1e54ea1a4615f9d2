package domain

import (
	"strconv"
	"strings"
	"time"
)

// CancellationType — бинарная таксономия отмены сделки
type CancellationType string

const (
	CancellationNone     CancellationType = "NONE"
	CancellationCanceled CancellationType = "CANCELED"
)

// DealRecord — каноническое наблюдение одной сделки с недвижимостью.
// Даты хранятся в формате YYYY-MM-DD, сумма — в базовых единицах валюты (воны).
// Отсутствующие числовые поля — nil, а не ноль, чтобы не было ложных совпадений ключа.
type DealRecord struct {
	RegionCode        string
	AptID             *string // стабильный идентификатор здания от источника (если есть)
	AptName           string
	DealDate          string
	DealAmount        int64
	ExclusiveArea     *float64
	Floor             *int
	Jibun             string
	BuildingDong      *string
	EstateAgentRegion *string
	RegistrationDate  *string
	CancellationType  CancellationType
	CancellationDate  *string
	DealType          *string
	SellerType        *string
	BuyerType         *string
	IsLandLease       bool
}

// Equals — явное пополевое сравнение двух записей.
// Не зависит от сериализации и порядка полей.
func (r DealRecord) Equals(other DealRecord) bool {
	return r.RegionCode == other.RegionCode &&
		equalStrPtr(r.AptID, other.AptID) &&
		r.AptName == other.AptName &&
		r.DealDate == other.DealDate &&
		r.DealAmount == other.DealAmount &&
		equalFloatPtr(r.ExclusiveArea, other.ExclusiveArea) &&
		equalIntPtr(r.Floor, other.Floor) &&
		r.Jibun == other.Jibun &&
		equalStrPtr(r.BuildingDong, other.BuildingDong) &&
		equalStrPtr(r.EstateAgentRegion, other.EstateAgentRegion) &&
		equalStrPtr(r.RegistrationDate, other.RegistrationDate) &&
		r.CancellationType == other.CancellationType &&
		equalStrPtr(r.CancellationDate, other.CancellationDate) &&
		equalStrPtr(r.DealType, other.DealType) &&
		equalStrPtr(r.SellerType, other.SellerType) &&
		equalStrPtr(r.BuyerType, other.BuyerType) &&
		r.IsLandLease == other.IsLandLease
}

// AptIdentity возвращает стабильную идентичность здания:
// идентификатор источника, а при его отсутствии — имя.
func (r DealRecord) AptIdentity() string {
	if r.AptID != nil && *r.AptID != "" {
		return *r.AptID
	}
	return r.AptName
}

// NaturalKey — натуральный ключ сделки: регион, идентичность здания,
// дата сделки, площадь и этаж. Сумма сделки в ключ не входит —
// коррекция цены должна давать UPDATE той же строки, а не новую запись.
func (r DealRecord) NaturalKey() string {
	area := "-"
	if r.ExclusiveArea != nil {
		area = strconv.FormatFloat(*r.ExclusiveArea, 'f', 2, 64)
	}
	floor := "-"
	if r.Floor != nil {
		floor = strconv.Itoa(*r.Floor)
	}
	return strings.Join([]string{r.RegionCode, r.AptIdentity(), r.DealDate, area, floor}, "|")
}

// StoredDeal — строка хранилища: суррогатный id плюс каноническая запись.
type StoredDeal struct {
	ID        int64
	Record    DealRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DealUpdate — обновление существующей строки по суррогатному id.
// Текущее наблюдение полностью замещает сохранённое.
type DealUpdate struct {
	ID     int64
	Record DealRecord
}

// SyncPlan — минимальный набор операций для сходимости хранилища.
// Удалений движок не выдаёт никогда.
type SyncPlan struct {
	Updates []DealUpdate
	Inserts []DealRecord
}

// IsEmpty — план без операций (регион уже сошёлся)
func (p SyncPlan) IsEmpty() bool {
	return len(p.Updates) == 0 && len(p.Inserts) == 0
}

// ApplyStats — результат применения плана к хранилищу
type ApplyStats struct {
	Inserted int
	Updated  int
}

// RegionSyncedEvent — событие об успешной синхронизации региона,
// публикуется для downstream-сервисов (избранное, уведомления).
type RegionSyncedEvent struct {
	RunID      string    `json:"run_id"`
	RegionCode string    `json:"region_code"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	SyncedAt   time.Time `json:"synced_at"`
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
