// Package app wires configuration, storage, messaging and the HTTP
// surface together and owns process lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/azalea/config"
	listingrepo "github.com/Ramsey-B/azalea/internal/repositories/listing"
	"github.com/Ramsey-B/azalea/internal/repositories/pricehistory"
	"github.com/Ramsey-B/azalea/pkg/database"
	"github.com/Ramsey-B/azalea/pkg/enrich"
	"github.com/Ramsey-B/azalea/pkg/events"
	"github.com/Ramsey-B/azalea/pkg/kafka"
	"github.com/Ramsey-B/azalea/pkg/logging"
	"github.com/Ramsey-B/azalea/pkg/pipeline"
	"github.com/Ramsey-B/azalea/pkg/projection"
	"github.com/Ramsey-B/azalea/pkg/routes/health"
	"github.com/Ramsey-B/azalea/pkg/server"
	"github.com/Ramsey-B/azalea/pkg/startup"
	"github.com/Ramsey-B/azalea/pkg/tracing"
	"github.com/Ramsey-B/azalea/pkg/tracing/exporters"
)

const shutdownTimeout = 15 * time.Second

// App holds the long-lived pieces of the running service
type App struct {
	config *config.Config
	logger ectologger.Logger

	sqlxDB    *sqlx.DB
	db        database.DB
	producer  *kafka.Producer
	consumer  *kafka.Consumer
	processor *pipeline.Processor
	checker   *health.Checker
	server    *server.Server
}

// Run starts the service and blocks until it receives SIGINT/SIGTERM
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger, flushLogs, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer flushLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.InitConfig{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		OTLP:        otlpConfig(cfg),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize tracing")
	}

	a := &App{config: cfg, logger: logger}

	st := startup.New(logger, cfg.StartupMaxAttempts)
	st.AddDependency(newDependency("database", nil, a.startDatabase, a.stopDatabase))
	st.AddDependency(newDependency("migrations", []string{"database"}, a.runMigrations, nil))
	st.AddDependency(newDependency("services", []string{"migrations"}, a.buildServices, a.stopServices))
	st.AddDependency(newDependency("kafka_consumer", []string{"services"}, a.startConsumer, a.stopConsumer))
	st.AddDependency(newDependency("http_server", []string{"services"}, a.startServer, a.stopServer))

	if err := st.Start(ctx); err != nil {
		return err
	}
	a.checker.SetReady(true)
	logger.WithContext(ctx).WithField("app", cfg.AppName).Info("Service started")

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	a.checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := st.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Failed to flush spans")
	}
	return nil
}

func otlpConfig(cfg *config.Config) *exporters.OTLPConfig {
	if cfg.OTLPEndpoint == "" {
		return nil
	}
	return &exporters.OTLPConfig{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  10 * time.Second,
	}
}

func (a *App) startDatabase(ctx context.Context) error {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseUserName,
		a.config.DatabasePassword,
		a.config.DatabaseName,
		a.config.DatabaseSSLMode,
	)

	sqlxDB, err := sqlx.ConnectContext(ctx, a.config.DatabaseDriver, dsn)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}

	a.sqlxDB = sqlxDB
	a.db = database.NewDatabaseInstance(sqlxDB, a.logger)
	a.db.SetMaxOpenConns(a.config.DatabaseMaxOpenConns)
	a.db.SetMaxIdleConns(a.config.DatabaseMaxIdleConns)
	a.db.SetConnMaxLifetime(a.config.DatabaseConnMaxLifetime)
	return nil
}

func (a *App) stopDatabase(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) runMigrations(ctx context.Context) error {
	driver, err := migratepg.WithInstance(a.sqlxDB.DB, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	ms := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.config.DatabaseMigrationFolderPath,
		Version:             uint(a.config.DatabaseMigrationVersion),
	})
	return ms.Migrate(a.config.DatabaseName, driver)
}

// buildServices constructs the domain graph once storage is reachable
// and registers the pieces route handlers resolve at request time.
func (a *App) buildServices(ctx context.Context) error {
	listings := listingrepo.NewRepository(a.db, a.logger)
	history := pricehistory.NewRepository(a.db, a.logger)

	a.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      a.config.KafkaBrokers,
		Topic:        a.config.KafkaOutputTopic,
		BatchSize:    a.config.KafkaBatchSize,
		BatchTimeout: time.Duration(a.config.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: a.config.KafkaRequiredAcks,
		Compression:  a.config.KafkaCompression,
	}, a.logger)
	emitter := events.NewEmitter(a.producer, a.logger)

	provider := projection.NewProvider(func() (projection.Engine, error) {
		var predictor projection.ValuePredictor = projection.UnavailablePredictor{}
		if a.config.ProjectionServiceURL != "" {
			predictor = projection.NewHTTPPredictor(a.config.ProjectionServiceURL, a.config.ProjectionServiceTimeout)
		}
		return projection.NewResidualProjector(predictor), nil
	})

	enricher := enrich.New(a.logger, provider)
	a.processor = pipeline.NewProcessor(listings, history, emitter, enricher, a.logger)
	a.checker = health.NewChecker(a.db, a.consumerHealth(), a.config.AppVersion)

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return errors.Wrap(err, "failed to create DI container")
	}

	if err := ectoinject.RegisterInstance[ectologger.Logger](container, a.logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*config.Config](container, a.config); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[database.DB](container, a.db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*listingrepo.Repository](container, listings); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*pricehistory.Repository](container, history); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*enrich.Enricher](container, enricher); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*pipeline.Processor](container, a.processor); err != nil {
		return err
	}
	return nil
}

func (a *App) stopServices(ctx context.Context) error {
	if a.producer == nil {
		return nil
	}
	return a.producer.Close()
}

// consumerHealth defers the health read until the consumer exists,
// since the checker is built before the consumer starts.
func (a *App) consumerHealth() interface{ Health() bool } {
	return healthFunc(func() bool {
		if a.consumer == nil {
			return !a.config.KafkaConsumerEnabled
		}
		return a.consumer.Health()
	})
}

type healthFunc func() bool

func (f healthFunc) Health() bool {
	return f()
}

func (a *App) startConsumer(ctx context.Context) error {
	if !a.config.KafkaConsumerEnabled {
		a.logger.WithContext(ctx).Info("Kafka consumer disabled")
		return nil
	}

	a.consumer = kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       a.config.KafkaBrokers,
		Topic:         a.config.KafkaInputTopic,
		ConsumerGroup: a.config.KafkaConsumerGroup,
	}, a.logger, a.handleScrapeMessage)
	return a.consumer.Start(ctx)
}

func (a *App) stopConsumer(ctx context.Context) error {
	if a.consumer == nil {
		return nil
	}
	return a.consumer.Stop()
}

// handleScrapeMessage runs one scraped batch through the pipeline
func (a *App) handleScrapeMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	site := msg.GetSite()
	if site == "" {
		a.logger.WithContext(ctx).Warn("Dropping scrape message without a source site")
		return nil
	}

	resp, err := a.processor.ProcessBatch(ctx, site, msg.GetListings())
	if err != nil {
		return err
	}

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"site":      site,
		"run_id":    msg.GetRunID(),
		"received":  resp.Received,
		"created":   resp.Created,
		"updated":   resp.Updated,
		"unchanged": resp.Unchanged,
	}).Info("Processed scraped batch")
	return nil
}

func (a *App) startServer(ctx context.Context) error {
	a.server = server.New(server.Config{
		AppName: a.config.AppName,
		Port:    a.config.Port,
	}, a.logger, a.checker)

	go func() {
		if err := a.server.Start(); err != nil {
			a.logger.WithError(err).Error("HTTP server exited")
		}
	}()
	return nil
}

func (a *App) stopServer(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Stop(ctx)
}

// dependency adapts start/stop closures to the startup interface
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func newDependency(name string, dependsOn []string, start, stop func(ctx context.Context) error) *dependency {
	return &dependency{name: name, dependsOn: dependsOn, start: start, stop: stop}
}

func (d *dependency) GetName() string {
	return d.name
}

func (d *dependency) DependsOn() []string {
	return d.dependsOn
}

func (d *dependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}
