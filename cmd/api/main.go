package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/database"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/integration/leadstore"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
	"github.com/xavierca1/lead-intake/internal/infra/mail"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
	"github.com/xavierca1/lead-intake/internal/infra/ratelimit"
	"github.com/xavierca1/lead-intake/internal/infra/sheets"
	"github.com/xavierca1/lead-intake/internal/infra/worker"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "lead-intake"})
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database unreachable")
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	var workbook entity.Workbook = sheets.NewMemoryWorkbook()
	if db != nil {
		workbook = database.NewSheetRepository(db)
	}

	var windows entity.RateWindowStore = ratelimit.NewMemoryStore()
	if cfg.RateLimit.Store == config.StorePostgres {
		windows = database.NewRateWindowRepository(db)
	}

	// 2. Mail
	var mailer usecase.Mailer
	if cfg.Mail.Configured() {
		switch cfg.Mail.Provider {
		case config.ProviderMailgun:
			mailer = mail.NewMailgunSender(cfg.Mail.MailgunDomain, cfg.Mail.MailgunAPIKey, cfg.Mail.FromAddress())
		default:
			mailer = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.FromAddress())
		}
	} else {
		log.Warn().Str("provider", cfg.Mail.Provider).Msg("mail credentials missing, submissions will be refused")
	}
	notifier := usecase.NewNotifier(mailer, mail.NewComposer(cfg.BrandName), cfg.AdminEmail)

	recordUC := usecase.NewRecordLeadUseCase(workbook)

	// 3. Lead side channel
	var (
		sink       usecase.LeadSink
		rabbit     *queue.RabbitMQ
		localQueue *queue.LocalQueue
	)
	if cfg.LeadStore.URL != "" {
		var record queue.Handler
		if cfg.LeadStore.InProcess() {
			record = func(ctx context.Context, sub entity.Submission) error {
				_, err := recordUC.Execute(ctx, sub, nil)
				return err
			}
		} else {
			client := leadstore.NewClient(cfg.LeadStore.URL, cfg.LeadStore.Secret, leadstore.WithTimeout(cfg.LeadStore.Timeout))
			record = func(ctx context.Context, sub entity.Submission) error {
				_, err := client.Record(ctx, sub)
				return err
			}
		}

		if cfg.RabbitMQURL != "" {
			rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
			if err != nil {
				log.Fatal().Err(err).Msg("rabbitmq unreachable")
			}
			defer rabbit.Close()

			sink = queue.NewProducer(rabbit.Ch)
			leadWorker := queue.NewWorker(rabbit.Ch, record)
			go func() {
				if err := leadWorker.Start(ctx, queue.QueueName); err != nil {
					log.Error().Err(err).Msg("lead worker stopped")
				}
			}()
		} else {
			localQueue = queue.NewLocalQueue(cfg.LeadStore.QueueSize, record)
			localQueue.Start(ctx, 2)
			sink = localQueue
		}
	}

	// 4. UseCases
	limiter := ratelimit.NewLimiter(windows, cfg.RateLimit.Max, cfg.RateLimit.Window)
	submitUC := usecase.NewSubmitFormUseCase(limiter, usecase.NewValidator(), notifier, sink)

	sweeper := worker.NewSweeper(windows, cfg.RateLimit.SweepSchedule)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("invalid sweep schedule")
	}

	// 5. Handlers
	var amqpConn *amqp.Connection
	if rabbit != nil {
		amqpConn = rabbit.Conn
	}

	proxies, err := handlers.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Forms:          handlers.NewFormHandler(submitUC, cfg.FallbackContact(), proxies),
		LeadStore:      handlers.NewLeadStoreHandler(recordUC, cfg.LeadStore.Secret),
		Health:         handlers.NewHealthHandler(db, amqpConn, cfg.Mail.Configured() && cfg.AdminEmail != "", cfg.LeadStore.URL != ""),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("lead intake listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// the server stops first so no submission is enqueued after the queue
	// closes; in-process recording does not need the server to drain
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if localQueue != nil {
		localQueue.Close()
	}
	sweeper.Stop(shutdownCtx)
}
