package corpus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// Keep-alive connections from the shared transport outlive each test.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestLoaderNetworkSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("## Hallazgo 1: Rápido\ncuerpo\n"))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, time.Second, nil, nil)
	raw, origin, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if origin != OriginNetwork {
		t.Fatalf("expected network origin, got %s", origin)
	}
	if len(Split(raw)) != 1 {
		t.Fatalf("unexpected corpus content: %q", raw)
	}
}

func TestLoaderTimeoutEntersFallbackOnce(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release // slower than the loader's timeout
		w.Write([]byte("respuesta tardía"))
	}))
	defer srv.Close()
	defer close(release)

	loader := NewLoader(srv.URL, 20*time.Millisecond, nil, nil)
	_, _, err := loader.Load(context.Background())
	if !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("expected ErrNoCorpus after timeout, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected exactly one retrieval attempt, got %d", got)
	}
}

// A retrieval that completes after the timeout fired must be discarded,
// not merged into a later state.
func TestLoaderDiscardsLateResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(80 * time.Millisecond)
		w.Write([]byte("tardía"))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 10*time.Millisecond, nil, nil)
	_, _, err := loader.Load(context.Background())
	if !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("expected fallback, got %v", err)
	}

	// Let the late response land; the loader must not surface it anywhere.
	time.Sleep(150 * time.Millisecond)
}

func TestLoaderServesFromCacheAfterTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cache := testCache(t)
	if err := cache.Put(srv.URL, "## Hallazgo 9: En caché\ncuerpo\n"); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	loader := NewLoader(srv.URL, 20*time.Millisecond, cache, nil)
	raw, origin, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if origin != OriginCache {
		t.Fatalf("expected cache origin, got %s", origin)
	}
	if len(Split(raw)) != 1 {
		t.Fatalf("unexpected cached corpus: %q", raw)
	}
}

func TestLoaderWritesThroughToCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("contenido fresco"))
	}))
	defer srv.Close()

	cache := testCache(t)
	loader := NewLoader(srv.URL, time.Second, cache, nil)
	if _, _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	body, _, err := cache.Get(srv.URL)
	if err != nil {
		t.Fatalf("expected cached body, got %v", err)
	}
	if body != "contenido fresco" {
		t.Fatalf("unexpected cached body: %q", body)
	}
}

func TestLoaderEmptyURLGoesStraightToFallback(t *testing.T) {
	loader := NewLoader("", time.Second, nil, nil)
	_, _, err := loader.Load(context.Background())
	if !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("expected ErrNoCorpus, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.md")
	if err := os.WriteFile(path, []byte("## Hallazgo 1: Local\ncuerpo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader("", time.Second, nil, nil)
	raw, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("load file failed: %v", err)
	}
	if len(Split(raw)) != 1 {
		t.Fatalf("unexpected file corpus: %q", raw)
	}

	if _, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}
