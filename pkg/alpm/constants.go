package alpm

const (
	// DefaultDBPath is where pacman keeps its databases unless
	// pacman.conf says otherwise (check `pacman-conf DBPath`).
	DefaultDBPath = "/var/lib/pacman"

	// SyncDir and LocalDir are the subdirectories of DBPath holding
	// the sync databases and the installed-package records.
	SyncDir  = "sync"
	LocalDir = "local"

	// DescFile is the per-package record file name, both inside sync
	// database archives and in local install directories.
	DescFile = "desc"

	// SyncDBExt is the file extension of on-disk sync databases.
	SyncDBExt = ".db"
)

// Tags recognized by the record builders.
const (
	TagName    = "NAME"
	TagVersion = "VERSION"
	TagCSize   = "CSIZE"
	TagISize   = "ISIZE"
	TagSize    = "SIZE"
)
