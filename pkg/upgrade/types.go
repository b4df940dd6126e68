package upgrade

import (
	"regexp"
	"strings"
)

// Upgrade is one pending package upgrade, as reported by
// `pacman -Qu` or the checkupdates script.
type Upgrade struct {
	Repo       string // owning repository, filled in during enrichment
	Name       string
	OldVersion string
	NewVersion string
}

// lineRE matches one `pacman -Qu` output line: "pkgname oldver -> newver".
var lineRE = regexp.MustCompile(`^(\S+) (\S+) -> (\S+)$`)

// Parse parses one upgrade line. Lines not matching the expected shape
// (warnings, blank lines) return false.
func Parse(line string) (Upgrade, bool) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return Upgrade{}, false
	}
	return Upgrade{Name: m[1], OldVersion: m[2], NewVersion: m[3]}, true
}

// ParseLines parses every well-formed upgrade line in text, silently
// dropping the rest.
func ParseLines(text string) []Upgrade {
	var upgrades []Upgrade
	for _, line := range strings.Split(text, "\n") {
		if u, ok := Parse(line); ok {
			upgrades = append(upgrades, u)
		}
	}
	return upgrades
}

// CommonPrefixLen returns how many leading bytes OldVersion and
// NewVersion share, walked back to the last non-alphanumeric boundary
// so the colored diff never splits inside a version component: for
// 1.2-1 -> 1.10-1 the shared prefix is "1.", not "1.1".
func (u Upgrade) CommonPrefixLen() int {
	old, new := u.OldVersion, u.NewVersion
	common := 0
	for common < len(old) && common < len(new) && old[common] == new[common] {
		common++
	}
	for common > 0 && isAlphanumeric(old[common-1]) {
		common--
	}
	return common
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
