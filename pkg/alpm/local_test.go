package alpm

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeLocalPkg lays out one local database entry:
// <dbPath>/local/<dirname>/desc with the given content.
func writeLocalPkg(t *testing.T, dbPath, dirname, desc string) {
	t.Helper()

	dir := filepath.Join(dbPath, LocalDir, dirname)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, DescFile), []byte(desc), 0o644); err != nil {
		t.Fatalf("writing desc: %v", err)
	}
}

func TestLocalSizes(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir()
	writeLocalPkg(t, dbPath, "bash-5.1-1",
		"%NAME%\nbash\n\n%VERSION%\n5.1-1\n\n%SIZE%\n1100000\n\n")
	writeLocalPkg(t, dbPath, "base-3-2",
		"%NAME%\nbase\n\n%VERSION%\n3-2\n\n") // metadata package, no SIZE
	writeLocalPkg(t, dbPath, "stale-1.0-4",
		"%NAME%\nsomething-else\n\n%SIZE%\n42\n\n") // NAME disagrees, skipped

	// Entries that do not decompose are not packages.
	aux := filepath.Join(dbPath, LocalDir, "sync")
	if err := os.MkdirAll(aux, 0o755); err != nil {
		t.Fatalf("creating aux dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dbPath, LocalDir, "ALPM_DB_VERSION"), []byte("9\n"), 0o644); err != nil {
		t.Fatalf("writing version file: %v", err)
	}

	sizes, err := LocalSizes(dbPath, nil)
	if err != nil {
		t.Fatalf("LocalSizes: %v", err)
	}

	want := map[string]uint64{
		"bash": 1100000,
		"base": 0,
	}
	if !reflect.DeepEqual(sizes, want) {
		t.Errorf("LocalSizes() = %v, want %v", sizes, want)
	}
}

func TestLocalSizesFilter(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir()
	writeLocalPkg(t, dbPath, "bash-5.1-1", "%NAME%\nbash\n\n%SIZE%\n1\n\n")
	writeLocalPkg(t, dbPath, "vim-9.0-1", "%NAME%\nvim\n\n%SIZE%\n2\n\n")

	sizes, err := LocalSizes(dbPath, func(pkgname string) bool { return pkgname == "vim" })
	if err != nil {
		t.Fatalf("LocalSizes: %v", err)
	}
	if _, ok := sizes["bash"]; ok {
		t.Error("bash present despite filter")
	}
	if sizes["vim"] != 2 {
		t.Errorf("sizes[vim] = %d, want 2", sizes["vim"])
	}
}

func TestLocalSizesMissingDir(t *testing.T) {
	t.Parallel()

	_, err := LocalSizes(filepath.Join(t.TempDir(), "nope"), nil)
	if err == nil {
		t.Error("LocalSizes on missing directory succeeded, want error")
	}
}

func TestLocalSizesBadRecord(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir()
	writeLocalPkg(t, dbPath, "bad-1-1", "%NAME%\nbad\n\n%SIZE%\nhuge\n\n")

	_, err := LocalSizes(dbPath, nil)
	if err == nil {
		t.Fatal("LocalSizes on bad SIZE succeeded, want error")
	}
}
