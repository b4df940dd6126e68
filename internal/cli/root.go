// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alpmgo/checkupgrades"
	"github.com/alpmgo/checkupgrades/pkg/core"
)

var (
	cfgFile   string
	colorMode string
	debug     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "checkupgrades",
	Short: "List pending pacman upgrades with repo and size information",
	Long: `checkupgrades lists available pacman package updates without root
and without touching the main pacman sync databases, enriched with the
owning repository, download size and installed size of each package.

By default it implements the same logic as checkupdates (from the
pacman-contrib package) to fetch a copy of the sync databases and list
available updates for installed packages.

Alternatively, if stdin is piped, it is assumed to be the output of the
checkupdates script, and checkupgrades only does the enrichment:

    checkupdates | checkupgrades`,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/checkupgrades/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "colorize output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := core.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if colorMode != "" {
		cfg.Color = colorMode
	}
	if debug {
		cfg.Debug = true
	}

	ctx := cmd.Context()
	mgr := checkupgrades.NewManager(cfg)

	piped := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
	upgrades, err := mgr.Upgrades(ctx, os.Stdin, piped)
	if err != nil {
		return err
	}
	if len(upgrades) == 0 {
		return nil
	}

	filter := checkupgrades.NameFilter(upgrades)

	// Missing metadata degrades to "unknown" rather than failing the
	// whole report.
	idx, warnings, err := mgr.LoadIndex(ctx, filter)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", warning)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	checkupgrades.Enrich(upgrades, idx)

	installed, err := mgr.InstalledSizes(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	return renderReport(os.Stdout, cfg.Color, upgrades, idx, installed)
}
