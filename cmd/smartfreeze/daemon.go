package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/control"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/daemon"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/logging"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the freeze daemon in the foreground",
	Long: `Polls for running games. When one starts, background processes above the
memory threshold are frozen; when it exits they are resumed. Processes left
frozen by a crash are resumed on startup.

The daemon serves status, toggle, quit and Prometheus metrics on a loopback
control address.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the freeze daemon in the background",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var daemonInterval time.Duration

func init() {
	for _, c := range []*cobra.Command{daemonCmd, startCmd} {
		c.Flags().DurationVarP(&daemonInterval, "interval", "i", 60*time.Second, "Poll interval")
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Set up logger (writes to <tmp>/smartfreeze.log)
	logger := logging.NewOrFallback(cfg.Logging())
	defer func() { _ = logger.Sync() }()

	// Claim the control address first; a second daemon stops here.
	ln, err := net.Listen("tcp", cfg.ControlAddr)
	if err != nil {
		logger.Error("control address in use", zap.String("addr", cfg.ControlAddr), zap.Error(err))
		return fmt.Errorf("cannot listen on %s (is another daemon running?): %w", cfg.ControlAddr, err)
	}

	metrics := monitoring.NewMetrics()
	engine := usecase.NewEngine(infra.NewProcessPort(), cfg.Selection(), logger)
	store := infra.NewFileStateStoreWithPath(cfg.StatePath)

	opts := []daemon.Option{daemon.WithMetrics(metrics)}
	if cfg.Journal {
		journal, err := infra.OpenJournal(cfg.DataDir)
		if err != nil {
			logger.Warn("freeze journal disabled", zap.Error(err))
		} else {
			defer journal.Close()
			if n, err := journal.Prune(time.Now().Add(-cfg.JournalRetention)); err != nil {
				logger.Warn("failed to prune journal", zap.Error(err))
			} else if n > 0 {
				logger.Info("pruned journal", zap.Int64("events", n))
			}
			opts = append(opts, daemon.WithJournal(journal))
		}
	}

	d := daemon.New(daemon.Config{
		PollInterval:     cfg.Interval,
		ResumeOnShutdown: true,
	}, engine, store, logger, opts...)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	server := control.NewServer(d, cancel, metrics, logger)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := server.Serve(ctx, ln); err != nil {
			logger.Warn("control API stopped", zap.Error(err))
		}
	}()

	err = d.Run(ctx)
	cancel()
	<-serverDone

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := control.NewClient(cfg.ControlAddr)
	if status, err := client.Status(cmd.Context()); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Daemon already running (%s)\n", status.State)
		return nil
	}

	pid, err := daemon.StartDetached(forwardedFlags(cmd)...)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Daemon started (PID %d)\n", pid)
	fmt.Fprintf(cmd.OutOrStdout(), "Control API: http://%s\n", cfg.ControlAddr)
	fmt.Fprintf(cmd.OutOrStdout(), "Log file:    %s\n", cfg.LogPath)
	return nil
}

// forwardedFlags repeats explicitly set flags for the detached daemon.
func forwardedFlags(cmd *cobra.Command) []string {
	var out []string
	flags := cmd.Flags()
	if configPath != "" {
		out = append(out, "--config", configPath)
	}
	if flags.Changed("threshold") {
		out = append(out, "--threshold", strconv.FormatUint(thresholdMB, 10))
	}
	if flags.Changed("keep-communication") {
		out = append(out, "--keep-communication="+strconv.FormatBool(keepCommunication))
	}
	if flags.Changed("interval") {
		out = append(out, "--interval", daemonInterval.String())
	}
	return out
}
