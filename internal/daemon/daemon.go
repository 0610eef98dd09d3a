// Package daemon implements the freeze daemon: a poll loop that freezes
// background processes while a game runs and resumes them afterward.
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

// ErrNotRunning is returned by control calls when the poll loop has exited.
var ErrNotRunning = errors.New("daemon is not running")

// Config holds daemon configuration.
type Config struct {
	PollInterval     time.Duration // How often to look for a game (default 60s)
	ResumeOnShutdown bool          // Resume frozen processes when Run returns
}

// DefaultConfig returns default daemon configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:     60 * time.Second,
		ResumeOnShutdown: true,
	}
}

type commandKind int

const (
	cmdStatus commandKind = iota
	cmdToggle
)

type command struct {
	kind  commandKind
	reply chan domain.DaemonStatus
}

// Daemon runs the Disabled / Idle / GameActive state machine.
type Daemon struct {
	config   Config
	engine   *usecase.Engine
	store    domain.StateStore
	journal  domain.FreezeJournal
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	state    *RuntimeState
	commands chan command
	done     chan struct{}
	now      func() time.Time
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithJournal records freeze history. A nil journal disables it.
func WithJournal(j domain.FreezeJournal) Option {
	return func(d *Daemon) { d.journal = j }
}

// WithMetrics publishes Prometheus metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(d *Daemon) { d.metrics = m }
}

// WithClock overrides the time source used for persisted timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Daemon) { d.now = now }
}

// New creates a daemon. Run must be called at most once.
func New(config Config, engine *usecase.Engine, store domain.StateStore, logger *zap.Logger, opts ...Option) *Daemon {
	d := &Daemon{
		config:   config,
		engine:   engine,
		store:    store,
		logger:   logger,
		state:    NewRuntimeState(),
		commands: make(chan command),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run recovers from a previous crash, then polls until ctx is canceled.
// This blocks until context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.done)

	d.Recover()

	d.logger.Info("freeze daemon started",
		zap.Duration("interval", d.config.PollInterval),
		zap.Uint64("threshold_mb", d.engine.Config().MinMemoryMB),
		zap.Bool("keep_communication", d.engine.Config().KeepCommunication))
	d.publish()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("freeze daemon stopping")
			if d.config.ResumeOnShutdown {
				d.resumeAll()
			}
			return ctx.Err()

		case <-ticker.C:
			d.Tick(ctx)

		case cmd := <-d.commands:
			d.handle(cmd)
		}
	}
}

// Tick runs one poll iteration. Outside tests it is only called by Run.
func (d *Daemon) Tick(ctx context.Context) {
	start := time.Now()
	defer func() { d.metrics.ObserveTick(time.Since(start)) }()

	if !d.state.IsEnabled() {
		return
	}

	gaming, err := d.engine.FindGamingProcesses(ctx)
	if err != nil {
		d.logger.Warn("skipping tick", zap.Error(err))
		return
	}

	active := len(gaming) > 0
	switch {
	case active && !d.state.gameDetected:
		d.logger.Info("game detected",
			zap.String("process", gaming[0].Name),
			zap.Int("pid", gaming[0].PID),
			zap.Int("gaming_processes", len(gaming)))
		d.freezeBackground(ctx)

	case !active && d.state.gameDetected:
		d.logger.Info("game closed")
		d.resumeAll()
	}
}

// freezeBackground moves Idle -> GameActive. A selection failure leaves the
// daemon idle so the next tick retries.
func (d *Daemon) freezeBackground(ctx context.Context) {
	candidates, err := d.engine.FindSafeToFreeze(ctx)
	if err != nil {
		d.logger.Warn("failed to select processes to freeze", zap.Error(err))
		return
	}

	d.state.gameDetected = true
	d.state.sessionID = uuid.NewString()

	pids := make([]int, 0, len(candidates))
	for _, c := range candidates {
		pids = append(pids, c.PID)
	}

	persisted := domain.NewPersistedState()
	results := d.engine.FreezeMany(pids)
	for i, res := range results {
		c := candidates[i]
		d.metrics.RecordFreeze(res.Err)
		d.record(domain.ActionFreeze, c.PID, c.Name, res.Err)
		if res.Err != nil {
			continue
		}
		d.state.AddFrozen(c.PID, c.Name)
		persisted.Add(domain.NewFrozenProcess(c.PID, c.Name, c.Path, d.now()))
	}

	d.saveState(persisted)
	d.publish()

	d.logger.Info("froze background processes",
		zap.String("session", d.state.sessionID),
		zap.Int("frozen", len(persisted.FrozenProcesses)),
		zap.Int("candidates", len(candidates)))
}

// resumeAll moves GameActive -> Idle: drains the frozen set and resumes each pid.
func (d *Daemon) resumeAll() {
	if !d.state.gameDetected && len(d.state.frozen) == 0 {
		return
	}

	names := make(map[int]string, len(d.state.frozen))
	for _, pid := range d.state.frozen {
		names[pid] = d.state.FrozenName(pid)
	}
	pids := d.state.ClearFrozen()

	resumed := 0
	for _, res := range d.engine.ResumeMany(pids) {
		d.metrics.RecordResume(res.Err)
		d.record(domain.ActionResume, res.PID, names[res.PID], res.Err)
		if res.Err == nil {
			resumed++
		}
	}

	d.logger.Info("resumed background processes",
		zap.String("session", d.state.sessionID),
		zap.Int("resumed", resumed),
		zap.Int("total", len(pids)))

	d.state.gameDetected = false
	d.state.sessionID = ""
	d.saveState(domain.NewPersistedState())
	d.publish()
}

func (d *Daemon) handle(cmd command) {
	switch cmd.kind {
	case cmdToggle:
		enabled := d.state.ToggleEnabled()
		d.logger.Info("monitoring toggled", zap.Bool("enabled", enabled))
		d.publish()
	case cmdStatus:
	}
	cmd.reply <- d.state.Snapshot()
}

// send hands a command to the poll loop and waits for its reply.
func (d *Daemon) send(ctx context.Context, kind commandKind) (domain.DaemonStatus, error) {
	cmd := command{kind: kind, reply: make(chan domain.DaemonStatus, 1)}

	select {
	case d.commands <- cmd:
	case <-d.done:
		return domain.DaemonStatus{}, ErrNotRunning
	case <-ctx.Done():
		return domain.DaemonStatus{}, ctx.Err()
	}

	select {
	case status := <-cmd.reply:
		return status, nil
	case <-ctx.Done():
		return domain.DaemonStatus{}, ctx.Err()
	}
}

// ToggleEnabled flips monitoring on or off and returns the new value.
// Turning monitoring off leaves frozen processes frozen.
func (d *Daemon) ToggleEnabled(ctx context.Context) (bool, error) {
	status, err := d.send(ctx, cmdToggle)
	if err != nil {
		return false, err
	}
	return status.Enabled, nil
}

// IsEnabled reports whether monitoring is on.
func (d *Daemon) IsEnabled(ctx context.Context) (bool, error) {
	status, err := d.send(ctx, cmdStatus)
	if err != nil {
		return false, err
	}
	return status.Enabled, nil
}

// Status returns a snapshot of the daemon state.
func (d *Daemon) Status(ctx context.Context) (domain.DaemonStatus, error) {
	return d.send(ctx, cmdStatus)
}

// saveState persists crash recovery state. Failure is logged, never fatal.
func (d *Daemon) saveState(state *domain.PersistedState) {
	if err := d.store.Save(state); err != nil {
		d.logger.Warn("failed to save state",
			zap.String("path", d.store.Path()),
			zap.Error(err))
	}
}

func (d *Daemon) record(action domain.JournalAction, pid int, name string, opErr error) {
	if d.journal == nil {
		return
	}
	event := domain.JournalEvent{
		SessionID: d.state.sessionID,
		Action:    action,
		PID:       pid,
		Name:      name,
		OK:        opErr == nil,
		At:        d.now(),
	}
	if opErr != nil {
		event.Detail = opErr.Error()
	}
	if err := d.journal.Record(event); err != nil {
		d.logger.Debug("failed to write journal", zap.Error(err))
	}
}

func (d *Daemon) publish() {
	d.metrics.SetState(d.state.IsEnabled(), d.state.GameDetected(), len(d.state.frozen))
}
