// pkg/upgrade/checkupdates.go
//
// Reimplementation of the checkupdates script from pacman-contrib:
// sync a throwaway copy of the databases under a snapshot directory so
// the real sync databases are never touched without root, then ask
// pacman which installed packages have newer versions there.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alpmgo/checkupgrades/pkg/alpm"
)

// DBPath resolves pacman's database path. Normally /var/lib/pacman,
// but pacman.conf can move it, so ask pacman-conf first.
func DBPath(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "pacman-conf", "DBPath").Output()
	if err == nil {
		if path := strings.TrimSpace(string(out)); path != "" {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return path
			}
		}
	}
	return alpm.DefaultDBPath
}

// Check lists pending upgrades without touching the real sync
// databases. The snapshot directory gets a symlink to the real local
// database under dbPath, `fakeroot pacman -Sy` refreshes the
// snapshot's sync databases, and `pacman -Qu` against the snapshot
// reports the upgrades.
func Check(ctx context.Context, dbPath, snapshot string) ([]Upgrade, error) {
	if err := os.MkdirAll(snapshot, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory %s: %w", snapshot, err)
	}

	link := filepath.Join(snapshot, alpm.LocalDir)
	if err := os.Symlink(filepath.Join(dbPath, alpm.LocalDir), link); err != nil &&
		!errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("creating symlink %s: %w", link, err)
	}

	// pacman -Sy refuses to run without root unless faked.
	sync := exec.CommandContext(ctx, "fakeroot", "--", "pacman", "-Sy",
		"--dbpath", snapshot, "--logfile", os.DevNull)
	if out, err := sync.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("syncing snapshot databases: %w\n%s", err, out)
	}

	query := exec.CommandContext(ctx, "pacman", "-Qu",
		"--dbpath", snapshot, "--logfile", os.DevNull)
	out, err := query.Output()
	if err != nil {
		// pacman -Qu exits 1 when there are no upgrades at all.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(out) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("querying upgrades: %w", err)
	}

	return ParseLines(string(out)), nil
}
