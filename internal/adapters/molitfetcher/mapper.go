package molitfetcher

import (
	"fmt"
	"strconv"
	"strings"

	"apt-sync-service/internal/core/domain"
)

// molitDealItem — сырая строка ответа API с именами полей источника
type molitDealItem struct {
	AptSeq            string `xml:"aptSeq"`
	AptName           string `xml:"aptNm"`
	AptDong           string `xml:"aptDong"`
	DealYear          string `xml:"dealYear"`
	DealMonth         string `xml:"dealMonth"`
	DealDay           string `xml:"dealDay"`
	DealAmount        string `xml:"dealAmount"`
	ExclusiveArea     string `xml:"excluUseAr"`
	Floor             string `xml:"floor"`
	Jibun             string `xml:"jibun"`
	RegistrationDate  string `xml:"rgstDate"`
	CancelDealType    string `xml:"cdealType"`
	CancelDealDay     string `xml:"cdealDay"`
	DealingGbn        string `xml:"dealingGbn"`
	SellerGbn         string `xml:"slerGbn"`
	BuyerGbn          string `xml:"buyerGbn"`
	LandLeaseholdGbn  string `xml:"landLeaseholdGbn"`
	EstateAgentSggNm  string `xml:"estateAgentSggNm"`
}

// mapDealItem превращает сырую строку источника в каноническую запись.
// Правила нормализации: даты → YYYY-MM-DD, сумма из "만원" со
// запятыми → воны, пропущенные числовые поля → nil.
func mapDealItem(regionCode string, item molitDealItem) (domain.DealRecord, error) {
	dealDate, err := canonicalDealDate(item.DealYear, item.DealMonth, item.DealDay)
	if err != nil {
		return domain.DealRecord{}, fmt.Errorf("invalid deal date: %w", err)
	}

	amount, err := parseDealAmount(item.DealAmount)
	if err != nil {
		return domain.DealRecord{}, fmt.Errorf("invalid deal amount: %w", err)
	}

	aptName := strings.TrimSpace(item.AptName)
	if aptName == "" {
		return domain.DealRecord{}, fmt.Errorf("empty apartment name")
	}

	cancellationDate := normalizeDate(item.CancelDealDay)
	cancellation := domain.CancellationNone
	if strings.TrimSpace(item.CancelDealType) != "" || cancellationDate != nil {
		cancellation = domain.CancellationCanceled
	}

	return domain.DealRecord{
		RegionCode:        regionCode,
		AptID:             trimmedPtr(item.AptSeq),
		AptName:           aptName,
		DealDate:          dealDate,
		DealAmount:        amount,
		ExclusiveArea:     parseAreaPtr(item.ExclusiveArea),
		Floor:             parseIntPtr(item.Floor),
		Jibun:             strings.TrimSpace(item.Jibun),
		BuildingDong:      trimmedPtr(item.AptDong),
		EstateAgentRegion: trimmedPtr(item.EstateAgentSggNm),
		RegistrationDate:  normalizeDate(item.RegistrationDate),
		CancellationType:  cancellation,
		CancellationDate:  cancellationDate,
		DealType:          trimmedPtr(item.DealingGbn),
		SellerType:        trimmedPtr(item.SellerGbn),
		BuyerType:         trimmedPtr(item.BuyerGbn),
		IsLandLease:       strings.EqualFold(strings.TrimSpace(item.LandLeaseholdGbn), "Y"),
	}, nil
}

// canonicalDealDate собирает дату сделки из тройки (год, месяц, день)
func canonicalDealDate(year, month, day string) (string, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", fmt.Errorf("year %q: %w", year, err)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return "", fmt.Errorf("month %q: %w", month, err)
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return "", fmt.Errorf("day %q: %w", day, err)
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", fmt.Errorf("out of range: %d-%d-%d", y, m, d)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

// normalizeDate канонизирует дату источника в YYYY-MM-DD.
// Источник отдает "YYYY.MM.DD" либо "YYYYMMDD"; пустое значение → nil.
func normalizeDate(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var y, m, d string
	switch {
	case strings.Contains(s, "."):
		parts := strings.Split(s, ".")
		if len(parts) != 3 {
			return nil
		}
		y, m, d = parts[0], parts[1], parts[2]
		// Встречается короткий год "YY.MM.DD" — приводим к 20YY
		if len(y) == 2 {
			y = "20" + y
		}
	case len(s) == 8:
		y, m, d = s[0:4], s[4:6], s[6:8]
	default:
		return nil
	}

	yi, errY := strconv.Atoi(y)
	mi, errM := strconv.Atoi(m)
	di, errD := strconv.Atoi(d)
	if errY != nil || errM != nil || errD != nil || mi < 1 || mi > 12 || di < 1 || di > 31 {
		return nil
	}

	formatted := fmt.Sprintf("%04d-%02d-%02d", yi, mi, di)
	return &formatted
}

// parseDealAmount конвертирует сумму из строк вида " 1,500 "
// (десятки тысяч вон) в базовые воны: 1500 → 15000000
func parseDealAmount(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	manwon, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", raw, err)
	}
	return manwon * 10_000, nil
}

func parseIntPtr(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseAreaPtr(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func trimmedPtr(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
