package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Manage launching the daemon at login",
}

var startupInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Launch the daemon at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupInstall,
}

var startupUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop launching the daemon at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupUninstall,
}

var startupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon launches at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupStatus,
}

func init() {
	startupCmd.AddCommand(startupInstallCmd)
	startupCmd.AddCommand(startupUninstallCmd)
	startupCmd.AddCommand(startupStatusCmd)
}

func runStartupInstall(cmd *cobra.Command, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	registrar := infra.NewStartupRegistrar()
	if err := registrar.Install(exe); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed: %s\n", registrar.Location())
	fmt.Fprintf(cmd.OutOrStdout(), "Command:   %s\n", infra.LaunchCommand(exe))
	return nil
}

func runStartupUninstall(cmd *cobra.Command, args []string) error {
	registrar := infra.NewStartupRegistrar()
	if err := registrar.Uninstall(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Startup registration removed")
	return nil
}

func runStartupStatus(cmd *cobra.Command, args []string) error {
	registrar := infra.NewStartupRegistrar()
	if registrar.IsInstalled() {
		fmt.Fprintf(cmd.OutOrStdout(), "Installed (%s)\n", registrar.Location())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Not installed")
	}
	return nil
}
