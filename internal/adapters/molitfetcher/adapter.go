package molitfetcher

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// MolitFetcherAdapter отвечает за все взаимодействия с открытым API
// реальных сделок (국토교통부 실거래가). Реализует port.SourceFetcherPort.
type MolitFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector   *colly.Collector
	baseURL     string
	serviceKey  string
	pageSize    int
	maxAttempts int
}

// NewMolitFetcherAdapter - конструктор. parallelism берется из размера
// батча планировщика, чтобы лимит запросов не расходился с конфигурацией.
func NewMolitFetcherAdapter(baseURL, serviceKey string, pageSize, parallelism int) (*MolitFetcherAdapter, error) {
	if serviceKey == "" {
		return nil, fmt.Errorf("MolitFetcherAdapter: service key is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("MolitFetcherAdapter: invalid base URL %q: %w", baseURL, err)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	// родительский коллектор
	c := colly.NewCollector(colly.AllowedDomains(parsed.Host), colly.AllowURLRevisit())

	// Правила наследуются всеми клонами коллектора.
	// Параллелизм равен размеру батча планировщика: внутри батча каждый
	// регион делает свои запросы, межбатчевую паузу держит планировщик.
	err = c.Limit(&colly.LimitRule{
		DomainGlob:  parsed.Host,
		Parallelism: parallelism,
		RandomDelay: 500 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("MolitFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)

	return &MolitFetcherAdapter{
		collector:   c,
		baseURL:     baseURL,
		serviceKey:  serviceKey,
		pageSize:    pageSize,
		maxAttempts: 3,
	}, nil
}
