package molitfetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"apt-sync-service/internal/constants"
	"apt-sync-service/internal/contextkeys"
	"apt-sync-service/internal/core/domain"
	"apt-sync-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// Структуры XML-ответа API
type molitResponse struct {
	XMLName xml.Name    `xml:"response"`
	Header  molitHeader `xml:"header"`
	Body    molitBody   `xml:"body"`
}

type molitHeader struct {
	ResultCode string `xml:"resultCode"`
	ResultMsg  string `xml:"resultMsg"`
}

type molitBody struct {
	Items      molitItems `xml:"items"`
	NumOfRows  int        `xml:"numOfRows"`
	PageNo     int        `xml:"pageNo"`
	TotalCount int        `xml:"totalCount"`
}

type molitItems struct {
	Items []molitDealItem `xml:"item"`
}

func (a *MolitFetcherAdapter) buildMonthURL(regionCode, yearMonth string) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("serviceKey", a.serviceKey)
	q.Set("LAWD_CD", regionCode)
	q.Set("DEAL_YMD", yearMonth)
	q.Set("pageNo", "1")
	q.Set("numOfRows", strconv.Itoa(a.pageSize))

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchMonth выполняет один запрос за месяц региона и возвращает
// нормализованные записи. После исчерпания попыток — domain.ErrSourceUnavailable.
func (a *MolitFetcherAdapter) FetchMonth(ctx context.Context, regionCode string, yearMonth string) ([]domain.DealRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{
		"component":   "MolitFetcherAdapter(FetchMonth)",
		"region_code": regionCode,
		"year_month":  yearMonth,
	})

	targetURL, err := a.buildMonthURL(regionCode, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("molit adapter: failed to build URL: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("molit adapter: fetch canceled: %w", ctx.Err())
		}

		records, fetchErr := a.fetchOnce(fetchLogger, regionCode, targetURL)
		if fetchErr == nil {
			fetchLogger.Debug("Month fetched", port.Fields{"records": len(records), "attempt": attempt})
			return records, nil
		}

		lastErr = fetchErr
		fetchLogger.Warn("Fetch attempt failed", port.Fields{
			"attempt": attempt,
			"max":     a.maxAttempts,
			"error":   fetchErr.Error(),
		})

		if attempt < a.maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, fmt.Errorf("molit adapter: fetch canceled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrSourceUnavailable, regionCode, yearMonth, lastErr)
}

func (a *MolitFetcherAdapter) fetchOnce(logger port.LoggerPort, regionCode, targetURL string) ([]domain.DealRecord, error) {
	// "одноразовый" клон для этого конкретного запроса:
	// наследует лимиты, но имеет свои собственные обработчики
	collector := a.collector.Clone()

	var records []domain.DealRecord
	var responseErr error

	collector.OnResponse(func(r *colly.Response) {
		var data molitResponse
		if xmlErr := xml.Unmarshal(r.Body, &data); xmlErr != nil {
			responseErr = fmt.Errorf("molit adapter: failed to parse XML response: %w", xmlErr)
			return
		}

		if data.Header.ResultCode != constants.MolitResultCodeOK {
			responseErr = fmt.Errorf("molit adapter: API error %s: %s", data.Header.ResultCode, data.Header.ResultMsg)
			return
		}

		for _, item := range data.Body.Items.Items {
			record, mapErr := mapDealItem(regionCode, item)
			if mapErr != nil {
				// Некондиционная строка источника не должна ронять месяц
				logger.Warn("Skipping unmappable deal item", port.Fields{
					"apt_name": item.AptName,
					"error":    mapErr.Error(),
				})
				continue
			}
			records = append(records, record)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("molit adapter: request failed with status %d: %w", r.StatusCode, err)
	})

	if visitErr := collector.Visit(targetURL); visitErr != nil {
		return nil, fmt.Errorf("molit adapter: failed to visit URL: %w", visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}

	return records, nil
}
