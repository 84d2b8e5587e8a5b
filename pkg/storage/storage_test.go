package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/veritas/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=veritasstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/veritasstore;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewFromConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "history",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "history",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "history",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "empty key", key: "", wantErr: storage.ErrEmptyKey},
		{name: "path traversal", key: "history/../secrets.json", wantErr: storage.ErrInvalidKey},
		{name: "double dot prefix", key: "..fakeNewsHistory.json", wantErr: storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/json"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "veritas" {
		t.Errorf("container_name: got %s, want veritas", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_SERVICE_URL", "https://acct.blob.core.windows.net")

	env := &storage.Env{
		ContainerName: "TEST_CONTAINER",
		ServiceURL:    "TEST_SERVICE_URL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ServiceURL != "https://acct.blob.core.windows.net" {
		t.Errorf("service_url: got %s", cfg.ServiceURL)
	}
}

func TestFinalizeRequiresEndpoint(t *testing.T) {
	cfg := storage.Config{ContainerName: "history"}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "connection_string or service_url required") {
		t.Errorf("error = %q", err)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "history", ConnectionString: "base"}
	base.Merge(&storage.Config{ServiceURL: "https://acct.blob.core.windows.net"})

	if base.ContainerName != "history" {
		t.Errorf("container_name: got %s, want history", base.ContainerName)
	}
	if base.ConnectionString != "base" {
		t.Errorf("connection_string: got %s, want base", base.ConnectionString)
	}
	if base.ServiceURL != "https://acct.blob.core.windows.net" {
		t.Errorf("service_url: got %s", base.ServiceURL)
	}
}
