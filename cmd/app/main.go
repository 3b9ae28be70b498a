package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	config "github.com/MLTCorp/sincron-grupos-sub000/configs"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/repositories"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/services"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/usecase"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/db"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/queue"
)

func main() {
	conf := config.LoadConfig(".")
	if conf == nil {
		panic("Failed to load config")
	}

	logging.SetupLogger(conf.Environment)
	logger := logging.GetLogger("main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbManager := db.NewDatabaseManager()
	defer dbManager.CloseAll()

	appConfig := db.DBConfig{
		Host:     conf.AppDBHost,
		User:     conf.AppDBUser,
		Password: conf.AppDBPassword,
		DBName:   conf.AppDBName,
		Port:     conf.AppDBPort,
		SSLMode:  conf.AppDBSSLMode,
	}

	if err := dbManager.Connect(db.AppDB, appConfig, &models.Trigger{}, &models.Category{}, &models.GroupCategory{}, &models.Group{}, &models.TranscriptionConfig{}, &models.Agent{}); err != nil {
		panic(fmt.Sprintf("Failed to connect to app database: %v", err))
	}

	auditConfig := db.DBConfig{
		Host:     conf.AuditDBHost,
		User:     conf.AuditDBUser,
		Password: conf.AuditDBPassword,
		DBName:   conf.AuditDBName,
		Port:     conf.AuditDBPort,
		SSLMode:  conf.AuditDBSSLMode,
	}

	if err := dbManager.Connect(db.AuditDB, auditConfig, &models.ExecutionRecord{}); err != nil {
		panic(fmt.Sprintf("Failed to connect to audit database: %v", err))
	}

	appDB, _ := dbManager.GetDB(db.AppDB)
	auditDB, _ := dbManager.GetDB(db.AuditDB)

	rabbitMQ := queue.NewRabbitMQ(conf)

	groupEvents, err := rabbitMQ.AddQueue(queue.QueueConfig{
		Name:       conf.GroupEventsQueue,
		BufferSize: conf.ConsumerQueueBufferSize,
		Consumer:   "trigger-engine-consumer",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("error adding group events queue")
	}

	if err := rabbitMQ.Connect(); err != nil {
		logger.Fatal().Err(err).Msg("error connecting to RabbitMQ")
	}
	defer rabbitMQ.Close()

	transport := services.NewWhatsappSenderService(conf)
	webhooks := services.NewWebhookSenderService(conf)
	agents := services.NewAgentService(conf)

	resolver := usecase.NewScopeResolver(
		repositories.NewTriggerRepository(appDB),
		repositories.NewGroupRepository(appDB),
		repositories.NewTranscriptionConfigRepository(appDB),
	)
	dispatcher := usecase.NewActionDispatcher(conf, transport, webhooks, agents, repositories.NewAgentRepository(appDB))
	recorder := usecase.NewExecutionRecorder(repositories.NewExecutionRecordRepository(auditDB))
	engine := usecase.NewTriggerEngine(resolver, usecase.NewConditionEvaluator(), dispatcher, recorder)

	go processGroupEvents(ctx, conf, groupEvents, engine)

	if err := waitForShutdown(cancel, rabbitMQ); err != nil {
		logger.Fatal().Err(err).Msg("error during shutdown")
	}
}

func processGroupEvents(ctx context.Context, conf *config.Config, msgs <-chan *amqp.Delivery, engine *usecase.TriggerEngine) {
	logger := logging.GetLogger("consumer")

	var wg sync.WaitGroup
	workerPool := make(chan struct{}, conf.ConsumerWorkers)

	for msg := range msgs {
		wg.Add(1)
		workerPool <- struct{}{}

		go func(msg *amqp.Delivery) {
			defer wg.Done()
			defer func() { <-workerPool }()

			logger.Debug().Msg("received a group event")

			if err := engine.ExecuteRaw(ctx, msg.Body); err != nil {
				logger.Error().Err(err).Msg("error processing event")
				msg.Nack(false, false)
				return
			}

			if err := msg.Ack(false); err != nil {
				logger.Error().Err(err).Msg("error acknowledging message")
			}
		}(msg)
	}

	wg.Wait()
	close(workerPool)
}

func waitForShutdown(cancel context.CancelFunc, rabbit *queue.RabbitMQ) error {
	logger := logging.GetLogger("shutdown")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info().Msg("received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		if err := rabbit.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing RabbitMQ")
		}
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("RabbitMQ closed successfully")
	case <-shutdownCtx.Done():
		logger.Warn().Msg("timeout while waiting for RabbitMQ to close")
	}

	return nil
}
