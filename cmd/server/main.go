// Command server wires the platform dependencies and serves the participant
// flow, the researcher dashboard API, and the operational endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	backloghandler "voxlab/internal/backlog/handler"
	backlogservice "voxlab/internal/backlog/service"
	backlogstore "voxlab/internal/backlog/store"
	experimenthandler "voxlab/internal/experiment/handler"
	experimentmetrics "voxlab/internal/experiment/metrics"
	experimentservice "voxlab/internal/experiment/service"
	experimentstore "voxlab/internal/experiment/store"
	formalityhandler "voxlab/internal/formality/handler"
	formalitymetrics "voxlab/internal/formality/metrics"
	formalityservice "voxlab/internal/formality/service"
	formalitystore "voxlab/internal/formality/store"
	"voxlab/internal/pipeline"
	pipelinehandler "voxlab/internal/pipeline/handler"
	"voxlab/internal/pipeline/invoker"
	pipelinemetrics "voxlab/internal/pipeline/metrics"
	pipelinestore "voxlab/internal/pipeline/store"
	"voxlab/internal/platform/config"
	"voxlab/internal/platform/httpserver"
	"voxlab/internal/platform/logger"
	platformmetrics "voxlab/internal/platform/metrics"
	"voxlab/internal/platform/postgres"
	platformredis "voxlab/internal/platform/redis"
	researcherhandler "voxlab/internal/researcher/handler"
	researcherservice "voxlab/internal/researcher/service"
	researcherstore "voxlab/internal/researcher/store"
	"voxlab/internal/researcher/token"
	"voxlab/internal/settings"
	settingshandler "voxlab/internal/settings/handler"
	settingsstore "voxlab/internal/settings/store"
	httptransport "voxlab/internal/transport/http"
	auditpublisher "voxlab/pkg/platform/audit/publisher"
	auditkafka "voxlab/pkg/platform/audit/store/kafka"
	auditmemory "voxlab/pkg/platform/audit/store/memory"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	log := logger.New()

	if cfg.DatabaseURL == "" {
		log.Error("VOXLAB_DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.FunctionsBaseURL == "" {
		log.Error("VOXLAB_FUNCTIONS_URL is required")
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	pool, err := postgres.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit events go to Kafka when brokers are configured; otherwise they
	// stay in process memory, which is enough for development.
	var auditStore auditpublisher.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := auditkafka.New(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(256),
		auditpublisher.WithLogger(log))
	defer publisher.Close()

	var settingsBackend settings.Store = settingsstore.NewPostgres(pool)
	if redisClient != nil {
		settingsBackend = settingsstore.NewCached(settingsstore.NewPostgres(pool), redisClient)
	}
	settingsSvc, err := settings.New(settingsBackend, settings.WithLogger(log))
	if err != nil {
		fatal(log, "settings service", err)
	}

	pm := pipelinemetrics.New()
	engine, err := pipeline.NewEngine(pipelinestore.NewPostgres(pool), settingsSvc,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(pm))
	if err != nil {
		fatal(log, "pipeline engine", err)
	}
	inv, err := invoker.New(cfg.FunctionsBaseURL, cfg.FunctionsAPIKey)
	if err != nil {
		fatal(log, "pipeline invoker", err)
	}
	runner, err := pipeline.NewRunner(inv, settingsSvc, engine,
		pipeline.WithRunnerLogger(log),
		pipeline.WithRunnerMetrics(pm),
		pipeline.WithAuditEmitter(publisher))
	if err != nil {
		fatal(log, "pipeline runner", err)
	}

	formalitySvc, err := formalityservice.New(formalitystore.NewPostgres(pool),
		formalityservice.WithLogger(log),
		formalityservice.WithMetrics(formalitymetrics.New()),
		formalityservice.WithAuditEmitter(publisher))
	if err != nil {
		fatal(log, "formality service", err)
	}

	experimentSvc, err := experimentservice.New(experimentstore.NewPostgres(pool),
		experimentservice.WithLogger(log),
		experimentservice.WithMetrics(experimentmetrics.NewExperimentMetrics()),
		experimentservice.WithAuditEmitter(publisher))
	if err != nil {
		fatal(log, "experiment service", err)
	}

	backlogSvc, err := backlogservice.New(backlogstore.NewPostgres(pool),
		backlogservice.WithLogger(log),
		backlogservice.WithAuditEmitter(publisher))
	if err != nil {
		fatal(log, "backlog service", err)
	}

	tokens := token.NewJWTService(cfg.JWTSigningKey, tokenTTL)
	researcherSvc, err := researcherservice.New(researcherstore.NewPostgres(pool), tokens,
		researcherservice.WithLogger(log))
	if err != nil {
		fatal(log, "researcher service", err)
	}

	router := httptransport.NewRouter(httptransport.Handlers{
		Experiment: experimenthandler.New(experimentSvc, log),
		Formality:  formalityhandler.New(formalitySvc, log),
		Pipeline:   pipelinehandler.New(engine, runner, log),
		Settings:   settingshandler.New(settingsSvc, log),
		Backlog:    backloghandler.New(backlogSvc, log),
		Researcher: researcherhandler.New(researcherSvc, log),
	}, token.NewMiddlewareAdapter(tokens), platformmetrics.New(), log)

	// Periodic status recomputation keeps the dashboard warm between loads.
	if cfg.StatusRefreshSpec != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.StatusRefreshSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := engine.FetchStatus(ctx); err != nil {
				log.Warn("scheduled status refresh failed", "error", err)
			}
		})
		if err != nil {
			fatal(log, "status refresh cron", err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting voxlab server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func fatal(log *slog.Logger, what string, err error) {
	log.Error(what+" init failed", "error", err)
	os.Exit(1)
}
