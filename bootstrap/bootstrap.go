// Package bootstrap wires configuration, logging, metrics, model building
// and schema creation into an application.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/artpar/onmodelcreating/adapters/idgen"
	"github.com/artpar/onmodelcreating/adapters/metrics"
	"github.com/artpar/onmodelcreating/config"
	"github.com/artpar/onmodelcreating/core/model"
	"github.com/artpar/onmodelcreating/core/modelcreating"
	"github.com/artpar/onmodelcreating/core/storage"
	"github.com/artpar/onmodelcreating/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// RegisterFunc adds entity types to a model builder.
type RegisterFunc func(*model.Builder)

// App holds the components shared by every command.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	// Metrics is nil unless metrics are enabled.
	Metrics  *metrics.Collector
	Registry *prometheus.Registry

	// IDs generates dispatch pass IDs.
	IDs ports.IDGenerator

	// Table holds the compile-time bound callbacks. Defaults to modelcreating.Default.
	Table *modelcreating.Table
}

// New creates the application from cfg. Logs go to out.
func New(cfg *config.Config, out io.Writer) *App {
	logger := SetupLogger(cfg.Logging, out)

	a := &App{
		Config: cfg,
		Logger: logger,
		IDs:    idgen.UUID{},
		Table:  modelcreating.Default,
	}

	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Metrics = metrics.NewWithRegistry(a.Registry)
		logger.Debug().Msg("prometheus metrics enabled")
	}

	return a
}

// SetupLogger builds a logger from the logging configuration.
func SetupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// BuildModel registers entity types, runs the model creating pass and
// finalizes the model. The report is returned even when the build fails,
// if the pass ran.
func (a *App) BuildModel(register RegisterFunc) (*model.Model, *modelcreating.Report, error) {
	mb := model.NewBuilder(model.WithLogger(a.Logger))
	register(mb)

	opts := []modelcreating.Option{
		modelcreating.WithTable(a.Table),
		modelcreating.WithLogger(a.Logger),
		modelcreating.WithIDGenerator(a.IDs),
	}
	if a.Config.Dispatch.FailFast {
		opts = append(opts, modelcreating.WithFailFast())
	}
	if a.Metrics != nil {
		opts = append(opts, modelcreating.WithObserver(a.Metrics))
	}

	var report *modelcreating.Report
	mb.OnBuild(func(b *model.Builder) error {
		r, err := modelcreating.Dispatch(b, opts...)
		report = r
		return err
	})

	m, err := mb.Build()
	if err != nil {
		return nil, report, err
	}
	return m, report, nil
}

// ApplySchema creates the model's tables in the configured database.
func (a *App) ApplySchema(ctx context.Context, m *model.Model) error {
	store, err := storage.NewSQLiteStore(a.Config.Database.DSN, a.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx, m); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// FlushMetrics writes gathered metrics to the configured textfile.
// It does nothing when metrics are disabled or no textfile is set.
func (a *App) FlushMetrics() error {
	if a.Registry == nil || a.Config.Metrics.Textfile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(a.Config.Metrics.Textfile, a.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	a.Logger.Debug().Str("path", a.Config.Metrics.Textfile).Msg("metrics written")
	return nil
}
