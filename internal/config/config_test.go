package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HistorySource != HistorySourceCSV {
		t.Fatalf("unexpected HistorySource: %q", cfg.HistorySource)
	}
	if cfg.MatchesCSVPath != "data/matches.csv" {
		t.Fatalf("unexpected MatchesCSVPath: %q", cfg.MatchesCSVPath)
	}
	if cfg.EncoderPath != "artifacts/encoder.json" {
		t.Fatalf("unexpected EncoderPath: %q", cfg.EncoderPath)
	}
	if cfg.GoalsForModelPath != "artifacts/model_gf.json" {
		t.Fatalf("unexpected GoalsForModelPath: %q", cfg.GoalsForModelPath)
	}
	if cfg.GoalsAgainstModelPath != "artifacts/model_ga.json" {
		t.Fatalf("unexpected GoalsAgainstModelPath: %q", cfg.GoalsAgainstModelPath)
	}
	if cfg.SimMaxWorkers != 8 {
		t.Fatalf("unexpected SimMaxWorkers: %d", cfg.SimMaxWorkers)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Fatalf("unexpected ReadTimeout: %s", cfg.ReadTimeout)
	}
	if cfg.ServiceName != "seriea-predictor-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
}

func TestLoad_HistorySourceValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("HISTORY_SOURCE", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid HISTORY_SOURCE")
	}
}

func TestLoad_PostgresHistorySource(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("HISTORY_SOURCE", "postgres")
	t.Setenv("DB_URL", "postgres://user:pass@db:5432/matches?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HistorySource != HistorySourcePostgres {
		t.Fatalf("unexpected HistorySource: %q", cfg.HistorySource)
	}
	if cfg.DBURL != "postgres://user:pass@db:5432/matches?sslmode=disable" {
		t.Fatalf("unexpected DBURL: %q", cfg.DBURL)
	}
}

func TestLoad_SimMaxWorkersValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SIM_MAX_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SIM_MAX_WORKERS=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "WARN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
