// Package infra implements infrastructure concerns (process control, state file, journal, startup).
package infra

import (
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

const bytesPerMB = 1024 * 1024

// ProcessPortImpl implements domain.ProcessPort using gopsutil.
// Suspend and Resume map to NtSuspendProcess/NtResumeProcess on Windows
// and SIGSTOP/SIGCONT elsewhere.
type ProcessPortImpl struct {
	foreground func() (int, bool)
}

// NewProcessPort creates a process port for the current platform.
func NewProcessPort() domain.ProcessPort {
	return &ProcessPortImpl{foreground: foregroundPID}
}

// Enumerate returns every process that could be inspected.
// Processes that exit mid-scan are skipped.
func (pp *ProcessPortImpl) Enumerate() ([]domain.ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	fg, hasFg := pp.foreground()

	infos := make([]domain.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}

		info := domain.ProcessInfo{
			PID:  int(p.Pid),
			Name: name,
		}
		if exe, err := p.Exe(); err == nil {
			info.Path = exe
		}
		if ppid, err := p.Ppid(); err == nil {
			info.PPID = int(ppid)
		}
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			info.MemoryMB = mem.RSS / bytesPerMB
		}
		info.IsForeground = hasFg && info.PID == fg

		infos = append(infos, info)
	}

	return infos, nil
}

// ForegroundPID returns the pid owning the active window, if any.
func (pp *ProcessPortImpl) ForegroundPID() (int, bool) {
	return pp.foreground()
}

// CurrentPID returns the current process PID.
func (pp *ProcessPortImpl) CurrentPID() int {
	return os.Getpid()
}

// Freeze suspends every thread of pid.
func (pp *ProcessPortImpl) Freeze(pid int) (int, error) {
	p, threads, err := open(pid)
	if err != nil {
		return 0, err
	}
	if err := p.Suspend(); err != nil {
		return 0, fmt.Errorf("suspend: %w", err)
	}
	return threads, nil
}

// Resume resumes every thread of pid.
func (pp *ProcessPortImpl) Resume(pid int) (int, error) {
	p, threads, err := open(pid)
	if err != nil {
		return 0, err
	}
	if err := p.Resume(); err != nil {
		return 0, fmt.Errorf("resume: %w", err)
	}
	return threads, nil
}

// open resolves pid and its thread count. Zero threads is an error.
func open(pid int) (*process.Process, int, error) {
	if pid <= 0 {
		return nil, 0, domain.ErrProcessNotFound
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return nil, 0, domain.ErrProcessNotFound
		}
		return nil, 0, err
	}

	threads, err := p.NumThreads()
	if err != nil {
		return nil, 0, fmt.Errorf("read thread count: %w", err)
	}
	if threads <= 0 {
		return nil, 0, errors.New("no threads found")
	}

	return p, int(threads), nil
}

// Ensure ProcessPortImpl implements domain.ProcessPort.
var _ domain.ProcessPort = (*ProcessPortImpl)(nil)
