// pkg/mirror/fetcher.go
package mirror

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Source pairs a repository name with the URL of its sync database.
type Source struct {
	Repo string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Result is the outcome of fetching one Source. Data is nil when Err
// is set.
type Result struct {
	Repo string
	Data []byte
	Err  error
}

// Config configures a Fetcher.
type Config struct {
	CacheDir string        // where fetched databases are kept; one file per source
	Timeout  time.Duration // per-request timeout
	Debug    bool          // log to stderr instead of discarding
	Logger   *log.Logger   // custom logger, overrides Debug
}

// Fetcher retrieves a fixed set of sync databases concurrently, one
// goroutine per source.
type Fetcher struct {
	client   *Client
	cacheDir string
	logger   *log.Logger
}

// NewFetcher creates a Fetcher writing cached databases under
// cfg.CacheDir.
func NewFetcher(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[MIRROR] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Fetcher{
		client:   NewClient(cfg.Timeout, logger),
		cacheDir: cfg.CacheDir,
		logger:   logger,
	}
}

// Fetch retrieves one source, serving from or refreshing the cache as
// needed.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	cachePath := filepath.Join(f.cacheDir, src.Repo+".db")
	data, err := f.client.FetchFile(ctx, src.URL, cachePath)
	if err != nil {
		return nil, fmt.Errorf("fetching repo %s: %w", src.Repo, err)
	}
	return data, nil
}

// FetchAll retrieves every source concurrently and collects each
// outcome independently, ordered by completion. One source failing
// neither cancels nor fails the others; the caller decides what a
// partial result means.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []Result {
	results := make(chan Result)
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			data, err := f.Fetch(ctx, src)
			results <- Result{Repo: src.Repo, Data: data, Err: err}
		}(src)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(sources))
	for res := range results {
		collected = append(collected, res)
	}
	return collected
}
