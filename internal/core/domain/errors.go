package domain

import "errors"

var (
	// ErrSourceUnavailable — источник не ответил после всех попыток.
	// Восстанавливается локально: месяц считается пустым, прогон продолжается.
	ErrSourceUnavailable = errors.New("source API unavailable")

	// ErrPersistence — ошибка записи/чтения хранилища после всех повторов.
	// Становится причиной отказа региона.
	ErrPersistence = errors.New("persistence failure")
)
