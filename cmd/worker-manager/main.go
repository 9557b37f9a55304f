// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"survey-workers/internal/autosave"
	"survey-workers/internal/common/aws"
	"survey-workers/internal/common/camunda"
	"survey-workers/internal/common/config"
	"survey-workers/internal/common/database"
	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/observability"
	"survey-workers/internal/routing"
	"survey-workers/internal/storage"

	ec "survey-workers/internal/workers/extraction/extract-chart"
	esv "survey-workers/internal/workers/extraction/extract-survey"
	rr "survey-workers/internal/workers/persistence/route-record"
)

const shutdownTimeout = 30 * time.Second

// closer is run in reverse order on shutdown.
type closer struct {
	name string
	fn   func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console", "")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	log.Info("Starting worker manager...", map[string]interface{}{
		"storage":  cfg.Storage.Backend,
		"autosave": cfg.AutoSave.Enabled,
		"camunda":  cfg.Camunda.Enabled,
	})

	obs := observability.New(cfg.App.Name, cfg.Metrics.TraceSampleRatio)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]checkFunc{}
	var closers []closer

	store, storeClosers, err := openStore(ctx, cfg, log, checks)
	if err != nil {
		zapLog.Fatal("storage init failed", zap.Error(err))
	}
	closers = append(closers, storeClosers...)

	router := routing.NewRouter(store, log, routing.WithTracer(obs.Tracer()))

	// --- Auto-save queue and worker ---
	var queue autosave.Queue
	autosaveDone := make(chan struct{})
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if cfg.AutoSave.Enabled {
		var queueClosers []closer
		queue, queueClosers, err = openQueue(ctx, cfg, log, checks)
		if err != nil {
			zapLog.Fatal("auto-save queue init failed", zap.Error(err))
		}
		closers = append(closers, queueClosers...)

		opts := []autosave.WorkerOption{autosave.WithRecorder(obs)}
		if cfg.AutoSave.AlertTopicARN != "" {
			snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			opts = append(opts, autosave.WithAlerter(autosave.NewSNSAlerter(snsClient, cfg.AutoSave.AlertTopicARN)))
			log.Info("Auto-save dead-letter alerts enabled", map[string]interface{}{
				"topicArn": cfg.AutoSave.AlertTopicARN,
			})
		}

		saver := autosave.NewWorker(&autosave.Config{
			Workers:    cfg.AutoSave.Workers,
			JobTimeout: config.GetDuration(cfg.AutoSave.JobTimeout),
			RetryDelay: time.Second,
		}, queue, router, log, opts...)

		go func() {
			defer close(autosaveDone)
			saver.Run(runCtx)
		}()
	} else {
		close(autosaveDone)
	}

	// --- Zeebe workers ---
	var workers *camunda.Workers
	if cfg.Camunda.Enabled {
		zc, err := camunda.Connect(ctx, cfg.Camunda, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		checks["zeebe"] = zc.HealthCheck
		closers = append(closers, closer{"zeebe", zc.Close})
		log.Info("Zeebe client connected successfully", nil)

		workers = camunda.NewWorkers(zc, log)
		registerWorkers(cfg, workers, router, queue, log)
	}

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           newHealthMux(checks, 5*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err})
	}
	if workers != nil {
		workers.Close()
	}

	if queue != nil {
		if err := queue.Close(); err != nil {
			log.Error("Error closing auto-save queue", map[string]interface{}{"error": err})
		}
		if _, durable := queue.(*autosave.RedisQueue); durable {
			cancelRun()
		}
	}
	select {
	case <-autosaveDone:
	case <-shutdownCtx.Done():
		log.Warn("Auto-save worker did not drain before shutdown timeout", nil)
		cancelRun()
		<-autosaveDone
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			log.Error("Error closing dependency", map[string]interface{}{
				"dependency": closers[i].name,
				"error":      err,
			})
		}
	}

	log.Info("Worker manager stopped gracefully", nil)
}

func registerWorkers(cfg *config.Config, workers *camunda.Workers, router *routing.Router, queue autosave.Queue, log logger.Logger) {
	chartCfg := config.GetWorkerConfig(cfg, ec.TaskType)
	workers.Start(ec.TaskType, chartCfg, ec.NewHandler(&ec.Config{
		Timeout: config.GetDuration(chartCfg.Timeout),
	}, log).Handle)

	surveyCfg := config.GetWorkerConfig(cfg, esv.TaskType)
	workers.Start(esv.TaskType, surveyCfg, esv.NewHandler(&esv.Config{
		Timeout:     config.GetDuration(surveyCfg.Timeout),
		FailOnEmpty: true,
	}, log).Handle)

	routeCfg := config.GetWorkerConfig(cfg, rr.TaskType)
	workers.Start(rr.TaskType, routeCfg, rr.NewHandler(&rr.Config{
		Timeout: config.GetDuration(routeCfg.Timeout),
	}, router, queue, log).Handle)

	log.Info("Workers registered", map[string]interface{}{"taskTypes": workers.TaskTypes()})
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger, checks map[string]checkFunc) (routing.Store, []closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		checks["postgres"] = pg.Ping
		return storage.NewPostgresStore(pg.DB, log), []closer{{"postgres", pg.Close}}, nil

	case config.BackendElasticsearch:
		es, err := database.ConnectElasticsearch(ctx, cfg.Database.Elasticsearch, log)
		if err != nil {
			return nil, nil, err
		}
		checks["elasticsearch"] = es.Ping
		return storage.NewElasticsearchStore(es.Client, cfg.Storage.IndexPrefix, log), nil, nil

	default:
		log.Warn("Using in-memory storage; records are lost on restart", nil)
		return storage.NewMemoryStore(), nil, nil
	}
}

// openQueue builds the configured auto-save queue.
func openQueue(ctx context.Context, cfg *config.Config, log logger.Logger, checks map[string]checkFunc) (autosave.Queue, []closer, error) {
	if cfg.AutoSave.Queue != config.QueueRedis {
		return autosave.NewMemoryQueue(cfg.AutoSave.BufferSize), nil, nil
	}

	pollTimeout := config.GetDuration(cfg.AutoSave.PollTimeout)
	rdb, err := database.ConnectRedis(ctx, cfg.Database.Redis, pollTimeout, log)
	if err != nil {
		return nil, nil, err
	}
	checks["redis"] = rdb.Ping

	return autosave.NewRedisQueue(rdb.Client, cfg.AutoSave.QueueKey, pollTimeout), []closer{{"redis", rdb.Close}}, nil
}
