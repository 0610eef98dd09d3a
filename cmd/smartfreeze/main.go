// Package main is the CLI entry point for smartfreeze.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/config"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/logging"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/output"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartfreeze",
	Short: "Freeze background processes while you game",
	Long: `smartfreeze suspends memory-hungry background processes while a game
is running and resumes them when it exits.

Run without a subcommand for a dry run: it lists what would be frozen
and what is protected, without touching anything.`,
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDryRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath        string
	thresholdMB       uint64
	keepCommunication bool
	formatFlag        string
	showAll           bool
	topN              int
	verbose           bool
	jsonOutput        bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $SMARTFREEZE_CONFIG or <user config dir>/smartfreeze/config.yaml)")
	pf.Uint64VarP(&thresholdMB, "threshold", "t", 100, "Minimum memory in MB for a process to be frozen")
	pf.BoolVar(&keepCommunication, "keep-communication", false, "Never freeze communication apps (Discord, Teams, ...)")

	f := rootCmd.Flags()
	f.StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json or csv")
	f.BoolVarP(&showAll, "all", "a", false, "Show every process instead of the top entries")
	f.IntVarP(&topN, "top", "n", 10, "Number of candidates shown in the table")
	f.BoolVarP(&verbose, "verbose", "v", false, "Show paths and matching rules")

	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(quitCmd)
	rootCmd.AddCommand(startupCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig layers explicitly set flags over file and environment config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.ThresholdMB = thresholdMB
	}
	if flags.Changed("keep-communication") {
		cfg.KeepCommunication = keepCommunication
	}
	if flags.Changed("interval") {
		cfg.Interval = daemonInterval
	}
	return cfg, cfg.Validate()
}

// cliLogger writes warnings to stderr, or everything with --verbose.
func cliLogger() *zap.Logger {
	cfg := logging.DevelopmentConfig()
	if !verbose {
		cfg.Level = "warn"
	}
	return logging.NewOrFallback(cfg)
}

func runDryRun(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	engine := usecase.NewEngine(infra.NewProcessPort(), cfg.Selection(), logger)
	report, err := engine.BuildReport(context.Background())
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), format, report, output.Options{
		All:     showAll,
		Top:     topN,
		Verbose: verbose,
	})
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("smartfreeze %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
