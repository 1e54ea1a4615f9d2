package retry

import (
	"apt-sync-service/internal/core/port"
	"context"
	"fmt"
	"time"
)

// Config хранит параметры стратегии повторов.
// Задержка растет линейно: attempt * BaseDelay.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do выполняет fn с повторами и линейным бэк-оффом.
// Прерывается досрочно при отмене контекста.
func (r Config) Do(ctx context.Context, logger port.LoggerPort, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			delay := time.Duration(attempt) * r.BaseDelay
			if logger != nil {
				logger.Warn("Operation failed, retrying", port.Fields{
					"operation": operationName,
					"attempt":   attempt,
					"max":       attempts,
					"delay_ms":  delay.Milliseconds(),
					"error":     lastErr.Error(),
				})
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s canceled during retry: %w", operationName, ctx.Err())
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, lastErr)
}
