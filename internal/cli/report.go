// internal/cli/report.go
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/alpmgo/checkupgrades"
)

// repoRank orders repositories the way pacman tooling presents them.
// Unknown (unenriched) packages sort first, custom repos last by name.
func repoRank(repo string) int {
	switch repo {
	case "":
		return 0
	case "core":
		return 1
	case "extra":
		return 2
	case "community":
		return 3
	case "multilib":
		return 4
	case "local":
		return 5
	default:
		return 6
	}
}

func repoColor(repo string) termenv.Color {
	switch repo {
	case "core", "local":
		return termenv.ANSIMagenta
	case "extra":
		return termenv.ANSIBlue
	case "community":
		return termenv.ANSIRed
	case "multilib":
		return termenv.ANSIGreen
	default:
		return termenv.ANSICyan
	}
}

func newOutput(w io.Writer, colorMode string) *termenv.Output {
	switch colorMode {
	case "always":
		return termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI))
	case "never":
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	default:
		return termenv.NewOutput(w)
	}
}

// renderReport writes the aligned, colorized upgrade table: repo/name,
// version diff, download size, and net installed-size change. Packages
// absent from the index have no repo or size information and render
// without those columns.
func renderReport(w io.Writer, colorMode string, upgrades []checkupgrades.Upgrade, idx checkupgrades.Index, installed map[string]uint64) error {
	out := newOutput(w, colorMode)

	sort.SliceStable(upgrades, func(i, j int) bool {
		a, b := upgrades[i], upgrades[j]
		if ra, rb := repoRank(a.Repo), repoRank(b.Repo); ra != rb {
			return ra < rb
		}
		if a.Repo != b.Repo {
			return a.Repo < b.Repo
		}
		return a.Name < b.Name
	})

	repoWidth, nameWidth, oldWidth := 0, 0, 0
	for _, u := range upgrades {
		repoWidth = max(repoWidth, len(u.Repo))
		nameWidth = max(nameWidth, len(u.Name))
		oldWidth = max(oldWidth, len(u.OldVersion))
	}
	repoNameWidth := repoWidth + nameWidth + 1

	var totalDownload, totalInstall uint64
	var totalNet int64

	for _, u := range upgrades {
		var line strings.Builder

		if u.Repo != "" {
			line.WriteString(out.String(u.Repo).Foreground(repoColor(u.Repo)).String())
			line.WriteByte('/')
			line.WriteString(u.Name)
			line.WriteString(strings.Repeat(" ", repoNameWidth-len(u.Repo)-len(u.Name)-1))
		} else {
			line.WriteString(u.Name)
			line.WriteString(strings.Repeat(" ", repoNameWidth-len(u.Name)))
		}
		line.WriteByte(' ')

		common := u.CommonPrefixLen()
		line.WriteString(u.OldVersion[:common])
		line.WriteString(out.String(u.OldVersion[common:]).Foreground(termenv.ANSIRed).String())
		line.WriteString(strings.Repeat(" ", oldWidth-len(u.OldVersion)))
		line.WriteString(" -> ")
		line.WriteString(u.NewVersion[:common])
		line.WriteString(out.String(u.NewVersion[common:]).Foreground(termenv.ANSIGreen).String())

		if pkg, ok := idx[u.Name]; ok {
			fmt.Fprintf(&line, "  %10s", formatSize(pkg.DownloadSize))
			totalDownload += pkg.DownloadSize
			totalInstall += pkg.InstallSize
			if old, ok := installed[u.Name]; ok {
				net := int64(pkg.InstallSize) - int64(old)
				totalNet += net
				fmt.Fprintf(&line, "  %10s", formatDelta(net))
			} else {
				fmt.Fprintf(&line, "  %10s", formatSize(pkg.InstallSize))
			}
		}

		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}

	if totalDownload > 0 {
		if _, err := fmt.Fprintf(w, "\nTotal download size: %s\nNet upgrade size:    %s\n",
			formatSize(totalDownload), formatDelta(totalNet)); err != nil {
			return err
		}
	}
	return nil
}

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// formatSize renders a byte count in IEC units with one decimal.
func formatSize(n uint64) string {
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", n, sizeUnits[0])
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

// formatDelta renders a signed byte count, always with a sign.
func formatDelta(n int64) string {
	if n < 0 {
		return "-" + formatSize(uint64(-n))
	}
	return "+" + formatSize(uint64(n))
}
