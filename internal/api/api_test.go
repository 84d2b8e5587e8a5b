package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/veritas/internal/api"
	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/internal/interaction"
	"github.com/JaimeStill/veritas/pkg/middleware"
)

func newModule(t *testing.T, classifier *httptest.Server, env map[string]string) http.Handler {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvHistoryBackend, config.BackendMemory)
	t.Setenv("VERITAS_CLIENT_BASE_URL", classifier.URL)
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	infra, err := infrastructure.New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)
	domain.Interaction.Initialize(context.Background())

	m, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	return m
}

func classifier(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte("Fake News Detector API is running!"))
			return
		}
		var req struct{ Text string }
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"label":       "FAKE",
			"probability": 0.93,
			"input_text":  strings.ToLower(req.Text),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSubmitThroughModule(t *testing.T) {
	m := newModule(t, classifier(t), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/submit", strings.NewReader(`{"text":"Government Announces Free iPhone"}`))
	m.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response should carry a request id")
	}

	var state interaction.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.History) != 1 || state.History[0].Text != "government announces free iphone" {
		t.Errorf("history = %+v", state.History)
	}
}

func TestServiceStatusThroughModule(t *testing.T) {
	m := newModule(t, classifier(t), nil)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/service", nil))

	var status interaction.ServiceStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Healthy {
		t.Errorf("status = %+v, want healthy", status)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	m := newModule(t, classifier(t), map[string]string{config.EnvAPIMaxRequestSize: "64B"})

	body := `{"text":"` + strings.Repeat("a", 256) + `"}`
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("POST", "/api/submit", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	m := newModule(t, classifier(t), map[string]string{
		"VERITAS_CORS_ENABLED": "true",
		"VERITAS_CORS_ORIGINS": "http://localhost:3000",
	})

	req := httptest.NewRequest("OPTIONS", "/api/submit", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	m := newModule(t, classifier(t), map[string]string{
		"VERITAS_OPENAPI_SERVER_URL": "https://veritas.example.com",
	})

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas   map[string]any `json:"schemas"`
			Responses map[string]any `json:"responses"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.Info.Title != "Veritas API" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://veritas.example.com/api" {
		t.Errorf("servers = %+v", doc.Servers)
	}
	if _, ok := doc.Components.Responses["ServiceUnavailable"]; !ok {
		t.Error("missing ServiceUnavailable response")
	}

	want := map[string][]string{
		"/state":            {"get"},
		"/input":            {"put"},
		"/submit":           {"post"},
		"/service":          {"get"},
		"/examples":         {"get"},
		"/examples/{index}": {"post"},
		"/history":          {"get", "delete"},
	}
	for path, methods := range want {
		item, ok := doc.Paths[path]
		if !ok {
			t.Errorf("missing path %s", path)
			continue
		}
		for _, method := range methods {
			if _, ok := item[method]; !ok {
				t.Errorf("%s missing %s", path, method)
			}
		}
	}

	for _, name := range []string{"State", "AnalysisResult", "HistoryEntry", "Error"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}
}
