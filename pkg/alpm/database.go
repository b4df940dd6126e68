// pkg/alpm/database.go
package alpm

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alpmgo/checkupgrades/pkg/archive"
)

// LoadDatabase reads one sync database archive from r and inserts every
// package record found into idx, tagged with the given repo name.
//
// Qualifying entries are regular files named exactly "desc" whose
// containing directory decomposes into a pkgname accepted by filter.
// A parse failure for one entry aborts the whole archive: corruption in
// one record usually means a bad archive, not an isolated bad package.
// Entries inserted before the failure stay in idx.
func LoadDatabase(idx Index, r io.ReadSeeker, repo string, filter Filter) error {
	ar, err := archive.NewReader(r)
	if err != nil {
		return err
	}
	defer ar.Close()

	for {
		hdr, err := ar.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive entry: %w", err)
		}

		if path.Base(hdr.Name) != DescFile {
			continue
		}
		pkgname, ok := SplitPkgname(path.Base(path.Dir(hdr.Name)))
		if !ok {
			continue
		}
		if !filter.accept(pkgname) {
			continue
		}

		data, err := io.ReadAll(ar)
		if err != nil {
			return fmt.Errorf("reading archive entry %s: %w", hdr.Name, err)
		}
		if !utf8.Valid(data) {
			return fmt.Errorf("parsing %s: not valid UTF-8", hdr.Name)
		}
		pkg, err := ParseSyncPackage(string(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", hdr.Name, err)
		}
		pkg.Repo = repo
		idx[pkg.Name] = pkg
	}
	return nil
}

// LoadDatabaseFile loads an on-disk sync database (e.g.
// /var/lib/pacman/sync/core.db) into idx. The repo name is the file
// stem, independent of record content.
func LoadDatabaseFile(idx Index, dbPath string, filter Filter) error {
	repo := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	if repo == "" {
		return fmt.Errorf("database path %s has no file stem", dbPath)
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer f.Close()

	return LoadDatabase(idx, f, repo, filter)
}

// LoadSyncDir loads every *.db file under dbPath/sync into a fresh
// Index.
//
// This does not check or respect the repo order from pacman.conf: when
// the same pkgname exists in several databases, which record ends up
// in the Index is unspecified.
func LoadSyncDir(dbPath string, filter Filter) (Index, error) {
	syncDir := filepath.Join(dbPath, SyncDir)
	entries, err := os.ReadDir(syncDir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", syncDir, err)
	}

	idx := make(Index)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != SyncDBExt {
			continue
		}
		dbFile := filepath.Join(syncDir, entry.Name())
		if err := LoadDatabaseFile(idx, dbFile, filter); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dbFile, err)
		}
	}
	return idx, nil
}
