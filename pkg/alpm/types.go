package alpm

// SyncPackage is one package record from a sync database archive.
type SyncPackage struct {
	Name         string // pkgname (%NAME%)
	Version      string // full pkgver-pkgrel (%VERSION%), when present
	Repo         string // repository, derived from the database name
	DownloadSize uint64 // compressed package size in bytes (%CSIZE%)
	InstallSize  uint64 // unpacked size in bytes (%ISIZE%)
}

// LocalPackage is one installed-package record from the local database.
type LocalPackage struct {
	Name          string
	Version       string
	InstalledSize uint64 // %SIZE%; 0 for metadata packages with no payload
}

// Index maps pkgname to its sync database record. Loading several
// databases into one Index is last-write-wins: repo priority across
// databases defining the same pkgname is whatever order the caller
// loads them in.
type Index map[string]*SyncPackage

// Filter restricts which pkgnames a load or scan considers. A nil
// Filter accepts everything.
type Filter func(pkgname string) bool

func (f Filter) accept(pkgname string) bool {
	return f == nil || f(pkgname)
}
