// Package daemon provides background process management for Materna.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
)

const (
	// AppName names the runtime and state directories.
	AppName = "materna"
	// PIDFileName is the PID file name inside the state directory.
	PIDFileName = "materna.pid"
)

var (
	ErrNotRunning     = errors.New("daemon is not running")
	ErrAlreadyRunning = errors.New("daemon is already running")
)

// PIDFile tracks the daemon process through a file under the XDG state
// directory. The state dir survives reboots and is per-user; the runtime
// dir is not guaranteed to exist on macOS.
type PIDFile struct {
	path string
}

// NewPIDFile creates a PID file manager at the default location.
func NewPIDFile() *PIDFile {
	return &PIDFile{path: GetPIDFilePath()}
}

// GetPIDFilePath returns the PID file location.
func GetPIDFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, PIDFileName)
}

// Path returns the PID file path.
func (p *PIDFile) Path() string { return p.path }

// Write records the current process in the PID file.
func (p *PIDFile) Write() error { return p.WritePID(os.Getpid()) }

// WritePID records an arbitrary PID, creating the state dir as needed.
func (p *PIDFile) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read returns the recorded PID. A missing file means the daemon is
// not running.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}

// Remove deletes the PID file. A missing file is not an error.
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Exists reports whether the PID file is present, live or stale.
func (p *PIDFile) Exists() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// IsRunning reports whether the recorded process is alive.
func (p *PIDFile) IsRunning() bool {
	return p.GetRunningPID() != 0
}

// GetRunningPID returns the live daemon PID, or 0 for a stale or
// missing file.
func (p *PIDFile) GetRunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

// IsProcessRunning probes a PID with signal 0. On Unix FindProcess
// always succeeds, so the signal is the real liveness check.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
