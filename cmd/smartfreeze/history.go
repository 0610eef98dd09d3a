package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent freeze and resume events",
	Long:  `Reads the encrypted freeze journal written by the daemon, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of events to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	journal, err := infra.OpenJournal(cfg.DataDir)
	if err != nil {
		return err
	}
	defer journal.Close()

	events, err := journal.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No events recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSESSION\tACTION\tPID\tNAME\tRESULT")
	for _, e := range events {
		session := e.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		if session == "" {
			session = "-"
		}
		result := "ok"
		if !e.OK {
			result = "failed: " + e.Detail
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), session, e.Action, e.PID, e.Name, result)
	}
	return w.Flush()
}
