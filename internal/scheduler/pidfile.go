package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const pidFileName = "daemon.pid"

// Status describes the daemon process associated with a data directory.
type Status struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// WritePidFile records the current process id. Fails if another daemon
// instance already holds the pid file.
func WritePidFile(dataDir string) (string, error) {
	path := filepath.Join(dataDir, pidFileName)
	if status := ReadStatus(dataDir); status.Running {
		return "", fmt.Errorf("daemon already running with pid %d", status.PID)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return "", fmt.Errorf("write pid file: %w", err)
	}
	return path, nil
}

// RemovePidFile deletes the pid marker on shutdown.
func RemovePidFile(dataDir string) {
	os.Remove(filepath.Join(dataDir, pidFileName))
}

// ReadStatus reports whether the recorded daemon process is alive. A
// stale pid file (process gone) is cleaned up.
func ReadStatus(dataDir string) Status {
	path := filepath.Join(dataDir, pidFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Status{}
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		os.Remove(path)
		return Status{}
	}
	if !processAlive(pid) {
		os.Remove(path)
		return Status{}
	}

	status := Status{Running: true, PID: pid}
	if info, err := os.Stat(path); err == nil {
		status.Uptime = formatDuration(time.Since(info.ModTime()))
	}
	return status
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
