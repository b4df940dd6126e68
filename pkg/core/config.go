// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alpmgo/checkupgrades/pkg/mirror"
)

// Config holds checkupgrades configuration.
type Config struct {
	// DBPath is pacman's database directory. Empty means resolve it
	// at runtime via pacman-conf, falling back to /var/lib/pacman.
	DBPath string `yaml:"db_path"`

	// SnapshotDir holds the throwaway database copy used to check
	// for upgrades, and the cached sync databases under its sync/
	// subdirectory.
	SnapshotDir string `yaml:"snapshot_dir"`

	// Mirrors lists the sync databases to fetch, one per repository.
	Mirrors []mirror.Source `yaml:"mirrors"`

	// Timeout bounds each database fetch.
	Timeout time.Duration `yaml:"timeout"`

	// Color controls report coloring: auto, always or never.
	Color string `yaml:"color"`

	Debug bool `yaml:"debug"`
}

// CacheDir is where fetched sync databases are stored.
func (c *Config) CacheDir() string {
	return filepath.Join(c.SnapshotDir, "sync")
}

// DefaultConfig returns a default configuration. The snapshot
// directory honors $CHECKUPDATES_DB, like the checkupdates script,
// defaulting to $TMPDIR/checkup-db-<uid>.
func DefaultConfig() *Config {
	return &Config{
		SnapshotDir: defaultSnapshotDir(),
		Mirrors:     mirror.DefaultSources,
		Timeout:     2 * time.Minute,
		Color:       "auto",
	}
}

// LoadConfig loads configuration from file, falling back to defaults
// when no file exists. Fields absent from the file keep their default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "checkupgrades", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func defaultSnapshotDir() string {
	if dir := os.Getenv("CHECKUPDATES_DB"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("checkup-db-%d", os.Getuid()))
}
