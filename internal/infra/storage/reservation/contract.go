package reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// TransactionManager интерфейс для управления транзакциями
// Вызов внутри уже открытой транзакции присоединяется к ней
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder метрики реестра (может быть nil)
type Recorder interface {
	IncClaim(result string)
	AddReleased(reason string, count int64)
	AddPurged(count int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Причины освобождения записей (лейбл метрики)
const (
	ReleaseReasonRollback = "rollback"
	ReleaseReasonBooking  = "booking"
	ReleaseReasonExplicit = "explicit"
)

// Результаты захвата (лейбл метрики)
const (
	ClaimResultSuccess  = "success"
	ClaimResultConflict = "conflict"
	ClaimResultError    = "error"
)
