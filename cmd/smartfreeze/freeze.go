package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Suspend one process",
	Long: `Suspends every thread of the given process. The process is not recorded
for crash recovery; resume it yourself with "smartfreeze resume --pid".`,
	Args: cobra.NoArgs,
	RunE: runFreeze,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume one process",
	Args:  cobra.NoArgs,
	RunE:  runResume,
}

var targetPID int

func init() {
	for _, c := range []*cobra.Command{freezeCmd, resumeCmd} {
		c.Flags().IntVarP(&targetPID, "pid", "p", 0, "Process ID")
		_ = c.MarkFlagRequired("pid")
	}
}

func runFreeze(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	engine := usecase.NewEngine(infra.NewProcessPort(), domain.DefaultSelectionConfig(), logger)
	threads, err := engine.FreezeProcess(targetPID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Froze PID %d (%d threads)\n", targetPID, threads)
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	engine := usecase.NewEngine(infra.NewProcessPort(), domain.DefaultSelectionConfig(), logger)
	threads, err := engine.ResumeProcess(targetPID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resumed PID %d (%d threads)\n", targetPID, threads)
	return nil
}
