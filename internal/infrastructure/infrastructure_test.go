package infrastructure_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/history"
	"github.com/JaimeStill/veritas/internal/infrastructure"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestNewFileBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(t, map[string]string{config.EnvHistoryDir: dir})

	infra, err := infrastructure.New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database != nil || infra.Storage != nil || infra.Cache != nil {
		t.Error("file backend should not create backing systems")
	}
	if infra.Client.BaseURL() != "http://127.0.0.1:5000" {
		t.Errorf("client base url = %s", infra.Client.BaseURL())
	}

	ctx := context.Background()
	entry := history.NewEntry(history.AnalysisResult{Label: history.LabelReal, Probability: 0.7, InputText: "x"}, time.Now(), "")
	if err := infra.History.Save(ctx, history.Log{entry}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := infra.History.Load(ctx); len(got) != 1 {
		t.Errorf("Load() length = %d, want 1", len(got))
	}
}

func TestNewMemoryBackend(t *testing.T) {
	cfg := loadConfig(t, map[string]string{config.EnvHistoryBackend: config.BackendMemory})

	infra, err := infrastructure.New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready")
	}
}

func TestNewPostgresBackendReportsUnreachable(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		config.EnvHistoryBackend:  config.BackendPostgres,
		"VERITAS_DB_HOST":         "127.0.0.1",
		"VERITAS_DB_PORT":         "1",
		"VERITAS_DB_NAME":         "veritas",
		"VERITAS_DB_USER":         "veritas",
		"VERITAS_DB_CONN_TIMEOUT": "200ms",
	})

	var logs bytes.Buffer
	infra, err := infrastructure.New(cfg, &logs)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database == nil {
		t.Fatal("postgres backend should create the database system")
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err == nil {
		t.Error("expected startup failure for unreachable database")
	}
	if infra.Lifecycle.Ready() {
		t.Error("lifecycle should not be ready")
	}
	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestLoggerFormat(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		config.EnvHistoryBackend: config.BackendMemory,
		"VERITAS_LOG_FORMAT":     "json",
	})

	var logs bytes.Buffer
	infra, err := infrastructure.New(cfg, &logs)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	infra.Logger.Info("hello")
	if !strings.HasPrefix(logs.String(), "{") {
		t.Errorf("expected json log line, got %q", logs.String())
	}
}
