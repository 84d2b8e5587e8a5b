package history_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JaimeStill/veritas/internal/history"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingBackend struct {
	err error
}

func (f *failingBackend) Read(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingBackend) Write(context.Context, string, []byte) error  { return f.err }
func (f *failingBackend) Delete(context.Context, string) error         { return f.err }

func sampleLog() history.Log {
	var log history.Log
	for i := 1; i <= 3; i++ {
		log = log.Prepend(entry(i))
	}
	return log
}

func TestStoreLoadMissingKey(t *testing.T) {
	store := history.NewStore(history.NewMemoryBackend(), "", discardLogger())

	log := store.Load(context.Background())
	if log == nil || len(log) != 0 {
		t.Errorf("Load() = %#v, want empty log", log)
	}
	if store.Key() != history.DefaultKey {
		t.Errorf("Key() = %s, want %s", store.Key(), history.DefaultKey)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := history.NewStore(history.NewMemoryBackend(), "test", discardLogger())

	want := sampleLog()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first := store.Load(ctx)
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("Load() = %+v, want %+v", first, want)
	}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if second := store.Load(ctx); !reflect.DeepEqual(second, first) {
		t.Errorf("second Load() = %+v, want %+v", second, first)
	}
}

func TestStoreLoadCorrupted(t *testing.T) {
	payloads := map[string]string{
		"invalid json":  "{not json",
		"object":        `{"id":"x"}`,
		"wrong types":   `[{"probability":"high"}]`,
		"truncated":     `[{"id":"a","label":"REAL"`,
		"null":          "null",
		"empty payload": "",
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			backend := history.NewMemoryBackend()
			if err := backend.Write(ctx, "test", []byte(payload)); err != nil {
				t.Fatalf("seed: %v", err)
			}

			log := history.NewStore(backend, "test", discardLogger()).Load(ctx)
			if log == nil || len(log) != 0 {
				t.Errorf("Load() = %#v, want empty log", log)
			}
		})
	}
}

func TestStoreLoadBackendError(t *testing.T) {
	store := history.NewStore(&failingBackend{err: errors.New("boom")}, "test", discardLogger())

	if log := store.Load(context.Background()); len(log) != 0 {
		t.Errorf("Load() = %+v, want empty log", log)
	}
}

func TestStoreLoadTruncatesOversizedPayload(t *testing.T) {
	ctx := context.Background()
	backend := history.NewMemoryBackend()
	store := history.NewStore(backend, "test", discardLogger())

	oversized := make(history.Log, 0, 12)
	for i := range 12 {
		oversized = append(oversized, entry(i))
	}
	if err := store.Save(ctx, oversized); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if log := store.Load(ctx); len(log) != history.Capacity {
		t.Errorf("len = %d, want %d", len(log), history.Capacity)
	}
}

func TestStoreSaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	backend := history.NewMemoryBackend()
	store := history.NewStore(backend, "test", discardLogger())

	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := backend.Read(ctx, "test")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("payload = %s, want []", data)
	}
}

func TestStoreSaveBackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	store := history.NewStore(&failingBackend{err: boom}, "test", discardLogger())

	err := store.Save(context.Background(), sampleLog())
	if !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want wrapped %v", err, boom)
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	backend := history.NewMemoryBackend()
	store := history.NewStore(backend, "test", discardLogger())

	if err := store.Save(ctx, sampleLog()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, err := backend.Read(ctx, "test"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Read() after Clear error = %v, want ErrNotFound", err)
	}
	if log := store.Load(ctx); len(log) != 0 {
		t.Errorf("Load() after Clear = %+v, want empty", log)
	}

	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v, want nil", err)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	store := history.NewStore(history.NewFileBackend(dir), "test", discardLogger())

	want := sampleLog()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "test.json")); err != nil {
		t.Fatalf("history file missing: %v", err)
	}

	reloaded := history.NewStore(history.NewFileBackend(dir), "test", discardLogger())
	if got := reloaded.Load(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := reloaded.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test.json")); !os.IsNotExist(err) {
		t.Errorf("history file should be removed, stat error = %v", err)
	}
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend := history.NewFileBackend(dir)

	for range 3 {
		if err := backend.Write(ctx, "test", []byte("[]")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "test.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want [test.json]", names)
	}
}

func TestFileBackendCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.json"), []byte("{invalid json}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := history.NewStore(history.NewFileBackend(dir), "test", discardLogger())
	if log := store.Load(context.Background()); len(log) != 0 {
		t.Errorf("Load() = %+v, want empty", log)
	}
}

func TestFileBackendRejectsInvalidKeys(t *testing.T) {
	backend := history.NewFileBackend(t.TempDir())

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := backend.Write(context.Background(), key, []byte("[]")); !errors.Is(err, history.ErrInvalidKey) {
			t.Errorf("Write(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
