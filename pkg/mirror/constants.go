package mirror

import "time"

const (
	// DefaultTimeout bounds one whole request, connect through body.
	DefaultTimeout = 2 * time.Minute

	// DefaultUserAgent identifies this tool to mirrors.
	DefaultUserAgent = "checkupgrades/0.1"
)

// DefaultSources are the standard Arch repositories on a global Tier 1
// mirror. Real deployments should configure these to match the mirror
// and repo set in pacman.conf.
var DefaultSources = []Source{
	{Repo: "core", URL: "https://geo.mirror.pkgbuild.com/core/os/x86_64/core.db"},
	{Repo: "extra", URL: "https://geo.mirror.pkgbuild.com/extra/os/x86_64/extra.db"},
}
