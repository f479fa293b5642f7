// cmd/screening-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Mahek226/LoanManagementSystem/internal/assignment"
	"github.com/Mahek226/LoanManagementSystem/internal/audit"
	commonaws "github.com/Mahek226/LoanManagementSystem/internal/common/aws"
	"github.com/Mahek226/LoanManagementSystem/internal/common/camunda"
	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/database"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/notification"
	"github.com/Mahek226/LoanManagementSystem/internal/screening"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/composite"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/engine"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/external"
	"github.com/Mahek226/LoanManagementSystem/internal/storage/postgres"
	"github.com/Mahek226/LoanManagementSystem/internal/workflow"

	ack "github.com/Mahek226/LoanManagementSystem/internal/workers/screening/acknowledge-resubmission"
	ar "github.com/Mahek226/LoanManagementSystem/internal/workers/screening/assign-reviewer"
	rd "github.com/Mahek226/LoanManagementSystem/internal/workers/screening/review-decision"
	sa "github.com/Mahek226/LoanManagementSystem/internal/workers/screening/submit-application"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.Wrap(zapLog)

	zapLog.Info("Starting screening manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS notification clients ---
	sesClient, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}

	// --- Wire screening pipeline ---
	store := postgres.NewStore(pg.DB)

	scoringEngine := engine.New(cfg.Screening)
	adapter := external.New(store, redisClient.Client, cfg.Screening, log)
	evaluator := composite.New(cfg.Screening)
	recorder := audit.NewRecorder(store, esClient.Client, log)
	screener := screening.NewService(store, scoringEngine, adapter, evaluator, recorder, log)

	balancer := assignment.NewBalancer(store, store, log)
	notifier := notification.NewService(sesClient, snsClient, store, store, cfg.Notifications, log)
	wf := workflow.New(store, store, store, balancer, screener, notifier, cfg.Screening, log)

	zapLog.Info("Screening pipeline wired")

	// --- Register workers ---
	var workers []*camunda.CamundaWorker

	saCfg := config.GetWorkerConfig(cfg, sa.TaskType)
	workers = appendWorker(workers, camundaClient, sa.TaskType, saCfg,
		sa.NewHandler(wf, &sa.Config{Timeout: config.GetDuration(saCfg.Timeout)}, log), zapLog)

	arCfg := config.GetWorkerConfig(cfg, ar.TaskType)
	workers = appendWorker(workers, camundaClient, ar.TaskType, arCfg,
		ar.NewHandler(wf, &ar.Config{Timeout: config.GetDuration(arCfg.Timeout)}, log), zapLog)

	rdCfg := config.GetWorkerConfig(cfg, rd.TaskType)
	workers = appendWorker(workers, camundaClient, rd.TaskType, rdCfg,
		rd.NewHandler(wf, &rd.Config{Timeout: config.GetDuration(rdCfg.Timeout)}, log), zapLog)

	ackCfg := config.GetWorkerConfig(cfg, ack.TaskType)
	workers = appendWorker(workers, camundaClient, ack.TaskType, ackCfg,
		ack.NewHandler(wf, &ack.Config{Timeout: config.GetDuration(ackCfg.Timeout)}, log), zapLog)

	zapLog.Info("All screening workers registered")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	for _, w := range workers {
		w.Stop(stopCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Screening manager stopped gracefully")
}

func appendWorker(workers []*camunda.CamundaWorker, client *camunda.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) []*camunda.CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return workers
	}

	w := camunda.NewWorker(client.GetClient(), taskType, wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond, handler, log)
	w.Start()

	return append(workers, w)
}
