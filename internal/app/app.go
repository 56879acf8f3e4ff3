package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/scudettolab/seriea-predictor/internal/config"
	"github.com/scudettolab/seriea-predictor/internal/domain/form"
	"github.com/scudettolab/seriea-predictor/internal/domain/match"
	"github.com/scudettolab/seriea-predictor/internal/infrastructure/artifact"
	"github.com/scudettolab/seriea-predictor/internal/infrastructure/repository/memory"
	csvsource "github.com/scudettolab/seriea-predictor/internal/infrastructure/source/csv"
	pgsource "github.com/scudettolab/seriea-predictor/internal/infrastructure/source/postgres"
	"github.com/scudettolab/seriea-predictor/internal/interfaces/httpapi"
	idgen "github.com/scudettolab/seriea-predictor/internal/platform/id"
	"github.com/scudettolab/seriea-predictor/internal/platform/logging"
	"github.com/scudettolab/seriea-predictor/internal/usecase"
)

// NewHTTPServer loads the match history and model bundle, derives the
// form features and wires the full serving stack. The returned closer
// releases the database handle when the postgres source is in use.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	source, closer, err := newHistorySource(cfg)
	if err != nil {
		return nil, nil, err
	}

	records, err := source.Load(ctx)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("load match history: %w", err)
	}

	rows, defaults := form.Derive(records)
	history := memory.NewHistoryRepository(rows, defaults)

	bundle, err := artifact.LoadBundle(artifact.Paths{
		Encoder:      cfg.EncoderPath,
		GoalsFor:     cfg.GoalsForModelPath,
		GoalsAgainst: cfg.GoalsAgainstModelPath,
	})
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("load model bundle: %w", err)
	}

	logger.Info("model bundle loaded",
		"version", bundle.Version,
		"schema_hash", bundle.SchemaHash,
		"matches", len(rows),
	)

	predictorSvc := usecase.NewPredictorService(history, bundle.Encoder, bundle.GoalsFor, bundle.GoalsAgainst, logger)
	analyticsSvc := usecase.NewAnalyticsService(history)
	simulationSvc := usecase.NewSimulationService(predictorSvc, idgen.NewRandomGenerator(), cfg.SimMaxWorkers, logger)

	handler := httpapi.NewHandler(predictorSvc, analyticsSvc, simulationSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closer()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closer, nil
}

func newHistorySource(cfg config.Config) (match.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.HistorySource {
	case config.HistorySourceCSV:
		return csvsource.NewSource(cfg.MatchesCSVPath), noop, nil
	case config.HistorySourcePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return pgsource.NewSource(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported history source %q", cfg.HistorySource)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}
