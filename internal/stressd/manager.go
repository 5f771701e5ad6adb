// Package stressd implements the CPU stress service that runs on each
// fleet instance: an HTTP API that launches stress-ng workers, tracks
// them by process ID, and stops them on request.
package stressd

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"sync"
	"syscall"
	"time"
)

// ErrNotFound reports that no tracked stress process has the given PID.
var ErrNotFound = errors.New("stress process not found")

// BinaryMissingError reports that the stress binary is not installed on
// this instance.
type BinaryMissingError struct {
	Binary string
}

func (e *BinaryMissingError) Error() string {
	return fmt.Sprintf("%s is not installed", e.Binary)
}

// process is one tracked stress-ng run. done is closed once the process
// has exited and been waited on.
type process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

const defaultStopGracePeriod = 5 * time.Second

// Manager tracks running stress processes. All table access is
// mutex-guarded; processes run in their own process groups so that a
// stop takes the workers down with the parent.
type Manager struct {
	binary      string
	gracePeriod time.Duration

	mu    sync.Mutex
	procs map[int]*process
}

// NewManager creates a manager launching the given stress binary
// (normally "stress-ng").
func NewManager(binary string) *Manager {
	return &Manager{
		binary:      binary,
		gracePeriod: defaultStopGracePeriod,
		procs:       make(map[int]*process),
	}
}

// Start launches a stress run with the given worker count and duration
// and returns its process ID. The process is reaped from the table
// shortly after its timeout expires.
func (m *Manager) Start(cpu, timeoutSeconds int) (int, error) {
	if _, err := exec.LookPath(m.binary); err != nil {
		return 0, &BinaryMissingError{Binary: m.binary}
	}

	cmd := exec.Command(m.binary,
		"--cpu", fmt.Sprintf("%d", cpu),
		"--timeout", fmt.Sprintf("%ds", timeoutSeconds),
		"--metrics-brief")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", m.binary, err)
	}

	p := &process{cmd: cmd, done: make(chan struct{})}
	pid := cmd.Process.Pid

	m.mu.Lock()
	m.procs[pid] = p
	m.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	go m.reapAfter(pid, time.Duration(timeoutSeconds+1)*time.Second)

	return pid, nil
}

// Stop terminates the stress run's process group with SIGTERM. The
// table entry is removed only once the process is confirmed gone, so a
// run that survives the signal stays listed and can be stopped again. A
// process that already exited still counts as stopped; an unknown PID
// returns ErrNotFound.
func (m *Manager) Stop(pid int) error {
	m.mu.Lock()
	p, ok := m.procs[pid]
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if p.exited() {
		m.remove(pid)
		return nil
	}

	// Negative PID addresses the whole process group.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			m.remove(pid)
			return nil
		}
		return fmt.Errorf("failed to stop stress process %d: %w", pid, err)
	}

	select {
	case <-p.done:
	case <-time.After(m.gracePeriod):
		return fmt.Errorf("stress process %d did not exit after SIGTERM", pid)
	}
	m.remove(pid)
	return nil
}

func (m *Manager) remove(pid int) {
	m.mu.Lock()
	delete(m.procs, pid)
	m.mu.Unlock()
}

// List returns the PIDs of live stress runs in ascending order, dropping
// finished entries from the table as it goes.
func (m *Manager) List() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pids := make([]int, 0, len(m.procs))
	for pid, p := range m.procs {
		if p.exited() {
			delete(m.procs, pid)
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// Count returns the number of live stress runs.
func (m *Manager) Count() int {
	return len(m.List())
}

// reapAfter drops the entry once the run's deadline has passed and the
// process has exited. Stop or List may have removed it already.
func (m *Manager) reapAfter(pid int, delay time.Duration) {
	time.Sleep(delay)

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.procs[pid]; ok && p.exited() {
		delete(m.procs, pid)
	}
}
