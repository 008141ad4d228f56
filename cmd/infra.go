package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-HallBookingService/internal/config"
	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HallBookingService/pkg/logger"
	"github.com/m04kA/SMC-HallBookingService/pkg/metrics"
	"github.com/m04kA/SMC-HallBookingService/pkg/txmanager"
)

// infra общие зависимости всех команд
type infra struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics // nil, если метрики выключены
	rawDB     *sql.DB
	db        *dbmetrics.DB
	txManager *txmanager.TransactionManager
	stopCh    chan struct{}
}

// openInfra загружает конфигурацию и подключается к базе данных
func openInfra(configPath string, withMetrics bool) (*infra, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	in := &infra{cfg: cfg, log: log, stopCh: make(chan struct{})}

	if withMetrics && cfg.Metrics.Enabled {
		in.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	in.rawDB = db
	if in.metrics != nil {
		in.db = dbmetrics.WrapWithDefault(db, in.metrics, in.stopCh)
		log.Info("Database metrics collection started")
	} else {
		in.db = dbmetrics.Wrap(db, nil)
	}
	in.txManager = txmanager.NewTransactionManager(in.db)

	return in, nil
}

// Close останавливает сбор метрик и закрывает соединения
func (in *infra) Close() {
	close(in.stopCh)
	if err := in.rawDB.Close(); err != nil {
		in.log.Error("Failed to close database: %v", err)
	}
	in.log.Close()
}
