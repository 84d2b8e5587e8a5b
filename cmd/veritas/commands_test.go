package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/veritas/internal/history"
	"github.com/JaimeStill/veritas/internal/interaction"
	"github.com/JaimeStill/veritas/internal/prediction"
)

func newCLI(t *testing.T, handler http.HandlerFunc) (*cli, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &prediction.Config{BaseURL: server.URL, Timeout: "2s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	client := prediction.New(cfg, logger)
	store := history.NewStore(history.NewFileBackend(t.TempDir()), "", logger)

	ctrl := interaction.New(client, store, logger)
	ctrl.Initialize(context.Background())

	var out bytes.Buffer
	return &cli{
		ctrl:   ctrl,
		prober: client,
		out:    &out,
		clock:  time.Now,
	}, &out
}

func classifier(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		w.Write([]byte("Fake News Detector API is running!"))
		return
	}
	var req struct{ Text string }
	json.NewDecoder(r.Body).Decode(&req)

	label := "REAL"
	if strings.Contains(strings.ToLower(req.Text), "alien") {
		label = "FAKE"
	}
	json.NewEncoder(w).Encode(map[string]any{
		"label":       label,
		"probability": 0.876,
		"input_text":  req.Text,
	})
}

func TestCheck(t *testing.T) {
	c, out := newCLI(t, classifier)

	if err := c.dispatch(context.Background(), []string{"check", "Scientists", "discover", "water"}); err != nil {
		t.Fatalf("check error = %v", err)
	}

	for _, want := range []string{"Result: REAL", "Confidence: 88%", "Input text analyzed: Scientists discover water"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckStdin(t *testing.T) {
	c, out := newCLI(t, classifier)
	c.in = strings.NewReader("Aliens land downtown")

	if err := c.dispatch(context.Background(), []string{"check", "-"}); err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out.String(), "Result: FAKE") {
		t.Errorf("output = %s", out)
	}
}

func TestCheckBlank(t *testing.T) {
	c, _ := newCLI(t, classifier)

	err := c.dispatch(context.Background(), []string{"check"})
	if err == nil || err.Error() != interaction.MsgEmptyInput {
		t.Errorf("error = %v, want %q", err, interaction.MsgEmptyInput)
	}
}

func TestCheckServiceError(t *testing.T) {
	c, _ := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.dispatch(context.Background(), []string{"check", "headline"})
	if err == nil || !strings.Contains(err.Error(), "Make sure the classification service is running") {
		t.Errorf("error = %v", err)
	}
}

func TestExample(t *testing.T) {
	c, out := newCLI(t, classifier)

	if err := c.dispatch(context.Background(), []string{"example", "4"}); err != nil {
		t.Fatalf("example error = %v", err)
	}
	if !strings.Contains(out.String(), "Result: FAKE") {
		t.Errorf("output = %s", out)
	}

	tests := []struct {
		args    []string
		wantErr error
	}{
		{[]string{"example"}, errUsage},
		{[]string{"example", "two"}, errUsage},
		{[]string{"example", "0"}, interaction.ErrUnknownExample},
		{[]string{"example", "5"}, interaction.ErrUnknownExample},
	}
	for _, tt := range tests {
		if err := c.dispatch(context.Background(), tt.args); !errors.Is(err, tt.wantErr) {
			t.Errorf("%v error = %v, want %v", tt.args, err, tt.wantErr)
		}
	}
}

func TestExamples(t *testing.T) {
	c, out := newCLI(t, classifier)

	if err := c.dispatch(context.Background(), []string{"examples"}); err != nil {
		t.Fatalf("examples error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(interaction.Examples()) {
		t.Fatalf("lines = %d, want %d", len(lines), len(interaction.Examples()))
	}
	if lines[0] != "1. "+interaction.Examples()[0] {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestHistoryAndClear(t *testing.T) {
	c, out := newCLI(t, classifier)
	ctx := context.Background()

	if err := c.dispatch(ctx, []string{"history"}); err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out.String(), "No checks yet") {
		t.Errorf("empty history output = %s", out)
	}

	c.dispatch(ctx, []string{"check", "first headline"})
	c.dispatch(ctx, []string{"check", "second headline"})
	out.Reset()

	if err := c.dispatch(ctx, []string{"history"}); err != nil {
		t.Fatalf("history error = %v", err)
	}
	body := out.String()
	if strings.Index(body, "second headline") > strings.Index(body, "first headline") {
		t.Errorf("history should list newest first:\n%s", body)
	}

	out.Reset()
	c.json = true
	if err := c.dispatch(ctx, []string{"history"}); err != nil {
		t.Fatalf("history error = %v", err)
	}
	var log history.Log
	if err := json.Unmarshal(out.Bytes(), &log); err != nil {
		t.Fatalf("decode json history: %v", err)
	}
	if len(log) != 2 {
		t.Errorf("json history length = %d, want 2", len(log))
	}

	if err := c.dispatch(ctx, []string{"clear"}); err != nil {
		t.Fatalf("clear error = %v", err)
	}
	if len(c.ctrl.History()) != 0 {
		t.Error("history should be empty after clear")
	}
}

func TestStatus(t *testing.T) {
	c, out := newCLI(t, classifier)

	if err := c.dispatch(context.Background(), []string{"status"}); err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out.String(), "is running") {
		t.Errorf("output = %s", out)
	}

	down, _ := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.dispatch(context.Background(), []string{"status"}); err == nil {
		t.Error("expected error for unhealthy service")
	}
}

func TestUnknownCommand(t *testing.T) {
	c, _ := newCLI(t, classifier)

	if err := c.dispatch(context.Background(), []string{"frobnicate"}); !errors.Is(err, errUsage) {
		t.Errorf("error = %v, want errUsage", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncate = %q", got)
	}
}
