package notify

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Recorder интерфейс метрик уведомлений
type Recorder interface {
	IncNotification(channel, result string)
}

// Sender канал доставки уведомлений
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Enqueuer неблокирующая постановка уведомления в очередь
type Enqueuer interface {
	Enqueue(msg Message) bool
}

// Результаты доставки для метрик
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)
