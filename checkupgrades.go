// checkupgrades.go
//
// Package checkupgrades lists pending pacman upgrades and enriches
// them with metadata from the sync databases: owning repository,
// download size, install size and currently installed size. The heavy
// lifting lives in the leaf packages (pkg/alpm, pkg/archive,
// pkg/mirror, pkg/upgrade); this package wires them together.
package checkupgrades

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"

	"github.com/alpmgo/checkupgrades/pkg/alpm"
	"github.com/alpmgo/checkupgrades/pkg/core"
	"github.com/alpmgo/checkupgrades/pkg/mirror"
	"github.com/alpmgo/checkupgrades/pkg/upgrade"
)

// Re-export the types callers interact with.
type (
	Config      = core.Config
	Upgrade     = upgrade.Upgrade
	SyncPackage = alpm.SyncPackage
	Index       = alpm.Index
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager runs the enrichment pipeline: fetch sync databases, build
// the package index, scan the local database, and fill in upgrade
// metadata.
type Manager struct {
	config  *core.Config
	logger  *log.Logger
	fetcher *mirror.Fetcher
}

// NewManager creates a Manager for the given configuration.
func NewManager(cfg *core.Config) *Manager {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}

	var logger *log.Logger
	if cfg.Debug {
		logger = log.New(os.Stderr, "[CHECKUPGRADES] ", log.LstdFlags)
	} else {
		logger = log.New(io.Discard, "", 0)
	}

	return &Manager{
		config: cfg,
		logger: logger,
		fetcher: mirror.NewFetcher(&mirror.Config{
			CacheDir: cfg.CacheDir(),
			Timeout:  cfg.Timeout,
			Logger:   logger,
		}),
	}
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *log.Logger { return m.logger }

// DBPath returns the configured pacman database path, resolving it via
// pacman-conf when the configuration leaves it empty.
func (m *Manager) DBPath(ctx context.Context) string {
	if m.config.DBPath != "" {
		return m.config.DBPath
	}
	return upgrade.DBPath(ctx)
}

// Upgrades obtains the pending upgrade list. When stdin is a pipe its
// contents are assumed to be checkupdates output; otherwise the
// checkupdates logic runs against a snapshot of the databases.
func (m *Manager) Upgrades(ctx context.Context, stdin io.Reader, piped bool) ([]Upgrade, error) {
	if piped {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &Error{Op: "reading stdin", Err: err}
		}
		return upgrade.ParseLines(string(data)), nil
	}
	return upgrade.Check(ctx, m.DBPath(ctx), m.config.SnapshotDir)
}

// LoadIndex fetches every configured sync database concurrently and
// loads the successful ones into a fresh Index, sequentially, in
// completion order. Per-source failures come back as warnings; the
// error is non-nil only when there are no mirrors or every source
// failed. Which repo wins when several define the same pkgname is
// unspecified.
func (m *Manager) LoadIndex(ctx context.Context, filter alpm.Filter) (Index, []error, error) {
	if len(m.config.Mirrors) == 0 {
		return nil, nil, ErrNoMirrors
	}

	results := m.fetcher.FetchAll(ctx, m.config.Mirrors)

	idx := make(Index)
	var warnings []error
	loaded := 0
	for _, res := range results {
		if res.Err != nil {
			warnings = append(warnings, &Error{Op: "fetching", Repo: res.Repo, Err: res.Err})
			continue
		}
		if err := alpm.LoadDatabase(idx, bytes.NewReader(res.Data), res.Repo, filter); err != nil {
			warnings = append(warnings, &Error{Op: "loading", Repo: res.Repo, Err: err})
			continue
		}
		loaded++
	}

	if loaded == 0 {
		return nil, warnings, ErrAllSourcesFailed
	}
	return idx, warnings, nil
}

// InstalledSizes returns the installed size of every local package
// accepted by filter.
func (m *Manager) InstalledSizes(ctx context.Context, filter alpm.Filter) (map[string]uint64, error) {
	return alpm.LocalSizes(m.DBPath(ctx), filter)
}

// Enrich fills in the Repo field of each upgrade from the index.
// Upgrades with no index entry are left untouched and render as
// unknown.
func Enrich(upgrades []Upgrade, idx Index) {
	for i := range upgrades {
		if pkg, ok := idx[upgrades[i].Name]; ok {
			upgrades[i].Repo = pkg.Repo
		}
	}
}

// NameFilter builds an alpm.Filter accepting exactly the names in the
// upgrade list, so database loads skip records nobody asked about.
func NameFilter(upgrades []Upgrade) alpm.Filter {
	names := make(map[string]struct{}, len(upgrades))
	for _, u := range upgrades {
		names[u.Name] = struct{}{}
	}
	return func(pkgname string) bool {
		_, ok := names[pkgname]
		return ok
	}
}
