package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const sweepJobName = "purge-expired-claims"

// Purger удаляет просроченные непривязанные захваты реестра
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ClaimSweeper периодически очищает захваты, которые не были привязаны к бронированию
// (процесс упал между захватом и сохранением, либо не удался откат)
type ClaimSweeper struct {
	purger    Purger
	log       Logger
	interval  time.Duration
	timeout   time.Duration
	scheduler gocron.Scheduler
}

// NewClaimSweeper создает планировщик с одной задачей очистки
// Задача не запускается параллельно сама с собой
func NewClaimSweeper(purger Purger, interval time.Duration, log Logger) (*ClaimSweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: create: %w", err)
	}

	sweeper := &ClaimSweeper{
		purger:    purger,
		log:       log,
		interval:  interval,
		timeout:   interval,
		scheduler: s,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sweeper.sweep),
		gocron.WithName(sweepJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("scheduler: register %s: %w", sweepJobName, err)
	}

	return sweeper, nil
}

// Start запускает периодическую очистку
func (s *ClaimSweeper) Start() {
	s.scheduler.Start()
	s.log.Info("Claim sweeper started (interval=%s)", s.interval)
}

// Stop останавливает планировщик и дожидается текущего запуска
func (s *ClaimSweeper) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler: shutdown: %w", err)
	}
	s.log.Info("Claim sweeper stopped")
	return nil
}

// RunOnce выполняет одну очистку синхронно
func (s *ClaimSweeper) RunOnce(ctx context.Context) (int64, error) {
	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info("Claim sweeper: purged %d expired claim entries", purged)
	}
	return purged, nil
}

func (s *ClaimSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("Claim sweeper: purge failed: %v", err)
	}
}
