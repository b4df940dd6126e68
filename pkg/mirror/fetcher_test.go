package mirror

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(&Config{CacheDir: t.TempDir(), Timeout: 5 * time.Second})
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	t.Parallel()

	lastMod := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	body := []byte("pretend this is a database")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", lastMod.Format(http.TimeFormat))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	data, err := f.Fetch(context.Background(), Source{Repo: "core", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Errorf("Fetch() = %q, want %q", data, body)
	}

	// The body must be on disk, with its mtime taken from Last-Modified.
	cachePath := filepath.Join(f.cacheDir, "core.db")
	cached, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("reading cache file: %v", err)
	}
	if !bytes.Equal(cached, body) {
		t.Errorf("cache file = %q, want %q", cached, body)
	}
	info, err := os.Stat(cachePath)
	if err != nil {
		t.Fatalf("stating cache file: %v", err)
	}
	if !info.ModTime().Equal(lastMod) {
		t.Errorf("cache mtime = %v, want %v", info.ModTime(), lastMod)
	}
}

func TestFetchNotModifiedUsesCache(t *testing.T) {
	t.Parallel()

	cached := []byte("previously downloaded")
	var sawConditional bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-Modified-Since") == "" {
			t.Error("request missing If-Modified-Since header")
			w.WriteHeader(http.StatusOK)
			return
		}
		sawConditional = true
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	cachePath := filepath.Join(f.cacheDir, "core.db")
	if err := os.WriteFile(cachePath, cached, 0o644); err != nil {
		t.Fatalf("priming cache: %v", err)
	}
	mtime := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(cachePath, mtime, mtime); err != nil {
		t.Fatalf("setting cache mtime: %v", err)
	}

	data, err := f.Fetch(context.Background(), Source{Repo: "core", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !sawConditional {
		t.Error("server never saw a conditional request")
	}
	if !bytes.Equal(data, cached) {
		t.Errorf("Fetch() = %q, want cached bytes %q", data, cached)
	}

	// 304 must not touch the file.
	info, err := os.Stat(cachePath)
	if err != nil {
		t.Fatalf("stating cache file: %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("cache mtime changed to %v on a 304", info.ModTime())
	}
}

func TestFetchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), Source{Repo: "core", URL: server.URL})
	if err == nil {
		t.Fatal("Fetch on 500 succeeded, want error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), server.URL) {
		t.Errorf("error %q should name the status and URL", err)
	}
}

func TestFetchRefusesNonRegularCacheFile(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t)
	if err := os.Mkdir(filepath.Join(f.cacheDir, "core.db"), 0o755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}

	_, err := f.Fetch(context.Background(), Source{Repo: "core", URL: "http://127.0.0.1:0"})
	if err == nil || !strings.Contains(err.Error(), "not a regular file") {
		t.Errorf("Fetch() error = %v, want not-a-regular-file", err)
	}
}

func TestFetchAllCollectsIndependently(t *testing.T) {
	t.Parallel()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("extra db"))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	f := newTestFetcher(t)
	results := f.FetchAll(context.Background(), []Source{
		{Repo: "core", URL: bad.URL},
		{Repo: "extra", URL: good.URL},
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	byRepo := map[string]Result{}
	for _, res := range results {
		byRepo[res.Repo] = res
	}
	if byRepo["core"].Err == nil {
		t.Error("core fetch should have failed")
	}
	if byRepo["extra"].Err != nil {
		t.Errorf("extra fetch failed: %v", byRepo["extra"].Err)
	}
	if string(byRepo["extra"].Data) != "extra db" {
		t.Errorf("extra data = %q", byRepo["extra"].Data)
	}
}

func TestFetchNoCacheFileSendsUnconditional(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ims := r.Header.Get("If-Modified-Since"); ims != "" {
			t.Errorf("unexpected If-Modified-Since %q on cold cache", ims)
		}
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	data, err := f.Fetch(context.Background(), Source{Repo: "core", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "fresh" {
		t.Errorf("Fetch() = %q, want %q", data, "fresh")
	}
}
