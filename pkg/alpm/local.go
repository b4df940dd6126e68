// pkg/alpm/local.go
package alpm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// LocalSizes scans the local database under dbPath and returns the
// installed size of every package accepted by filter, keyed by
// pkgname.
//
// Subdirectories whose name does not decompose into a pkgname, and
// records whose %NAME% disagrees with their directory, are skipped
// without error: unrelated entries and leftover alternate versions are
// expected there. I/O failures reading a record are hard errors.
func LocalSizes(dbPath string, filter Filter) (map[string]uint64, error) {
	localDir := filepath.Join(dbPath, LocalDir)
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", localDir, err)
	}

	sizes := make(map[string]uint64)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkgname, ok := SplitPkgname(entry.Name())
		if !ok {
			continue
		}
		if !filter.accept(pkgname) {
			continue
		}

		descPath := filepath.Join(localDir, entry.Name(), DescFile)
		data, err := os.ReadFile(descPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", descPath, err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("parsing %s: not valid UTF-8", descPath)
		}

		pkg, err := ParseLocalPackage(string(data), pkgname)
		if errors.Is(err, ErrNameMismatch) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", descPath, err)
		}
		sizes[pkg.Name] = pkg.InstalledSize
	}
	return sizes, nil
}
