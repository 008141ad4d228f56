package notify

import (
	"context"
	"strings"
)

// LogSender пишет уведомления в лог вместо отправки
type LogSender struct {
	log Logger
}

func NewLogSender(log Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Name() string {
	return "log"
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Notification %s to=[%s] subject=%q", msg.Kind, strings.Join(msg.To, ", "), msg.Subject)
	return nil
}
