package scheduler

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestPidFile_Lifecycle(t *testing.T) {
	dir := t.TempDir()

	if status := ReadStatus(dir); status.Running {
		t.Fatalf("expected no daemon, got %+v", status)
	}

	path, err := WritePidFile(dir)
	if err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if filepath.Base(path) != pidFileName {
		t.Errorf("unexpected pid path %s", path)
	}

	status := ReadStatus(dir)
	if !status.Running || status.PID != os.Getpid() {
		t.Errorf("expected running status for own pid, got %+v", status)
	}

	// A second instance must refuse while the first holds the file.
	if _, err := WritePidFile(dir); err == nil {
		t.Error("expected refusal while pid file is held")
	}

	RemovePidFile(dir)
	if status := ReadStatus(dir); status.Running {
		t.Errorf("expected stopped after remove, got %+v", status)
	}
}

func TestReadStatus_CleansStalePid(t *testing.T) {
	dir := t.TempDir()

	// A pid that cannot be a live process.
	stale := filepath.Join(dir, pidFileName)
	if err := os.WriteFile(stale, []byte(strconv.Itoa(1<<22-1)), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if status := ReadStatus(dir); status.Running {
		t.Errorf("expected stale pid rejected, got %+v", status)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale pid file removed")
	}
}

func TestReadStatus_CleansGarbagePid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, pidFileName)
	if err := os.WriteFile(path, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if status := ReadStatus(dir); status.Running {
		t.Errorf("expected garbage pid rejected, got %+v", status)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected garbage pid file removed")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Minute, "1h 30m"},
		{25 * time.Hour, "25h 0m"},
		{5 * time.Minute, "5m"},
		{30 * time.Second, "0m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
