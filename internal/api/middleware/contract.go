package middleware

import (
	"context"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPRecorder интерфейс записи метрик HTTP запросов
type HTTPRecorder interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// CounterStore хранилище счетчиков окна ограничения
type CounterStore interface {
	// Incr увеличивает счетчик ключа и возвращает новое значение
	// Счетчик живет не дольше window с момента первого увеличения
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
