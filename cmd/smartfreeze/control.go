package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/control"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long:  `Shows whether the daemon is running, its state, and which processes it has frozen.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Enable or disable monitoring",
	Long: `Flips monitoring on the running daemon. Disabling does not resume
processes that are already frozen; they resume when the game exits after
monitoring is enabled again, or when the daemon quits.`,
	Args: cobra.NoArgs,
	RunE: runToggle,
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the daemon (frozen processes are resumed)",
	Args:  cobra.NoArgs,
	RunE:  runQuit,
}

func controlClient(cmd *cobra.Command) (*control.Client, string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	return control.NewClient(cfg.ControlAddr), cfg.ControlAddr, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, addr, err := controlClient(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "SmartFreeze Status")
	fmt.Fprintln(out, "==================")

	status, err := client.Status(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Daemon:   not running (%s)\n", addr)
	} else {
		fmt.Fprintf(out, "Daemon:   running (%s)\n", addr)
		fmt.Fprintf(out, "State:    %s\n", status.State)
		fmt.Fprintf(out, "Enabled:  %t\n", status.Enabled)
		if status.SessionID != "" {
			fmt.Fprintf(out, "Session:  %s\n", status.SessionID)
		}
		if len(status.FrozenPIDs) > 0 {
			pids := make([]string, 0, len(status.FrozenPIDs))
			for _, pid := range status.FrozenPIDs {
				pids = append(pids, fmt.Sprint(pid))
			}
			fmt.Fprintf(out, "Frozen:   %d (%s)\n", len(pids), strings.Join(pids, ", "))
		} else {
			fmt.Fprintln(out, "Frozen:   none")
		}
	}

	registrar := infra.NewStartupRegistrar()
	if registrar.IsInstalled() {
		fmt.Fprintf(out, "Startup:  installed (%s)\n", registrar.Location())
	} else {
		fmt.Fprintln(out, "Startup:  not installed")
	}
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	client, _, err := controlClient(cmd)
	if err != nil {
		return err
	}
	enabled, err := client.ToggleEnabled(cmd.Context())
	if err != nil {
		return err
	}
	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Monitoring enabled")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Monitoring disabled (frozen processes stay frozen)")
	}
	return nil
}

func runQuit(cmd *cobra.Command, args []string) error {
	client, _, err := controlClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Quit(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopping")
	return nil
}
