package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/scheduler"
)

// =============================================================================
// Metrics Tests
// =============================================================================

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()

	m.RecordReminderFired("water")
	m.RecordReminderFired("medication")
	m.RecordNotificationSent(120)
	m.RecordNotificationFailed(fmt.Errorf("sink unreachable"))

	assert.Equal(t, int64(2), m.RemindersFired())
	assert.Equal(t, int64(1), m.NotificationsSent())
	assert.Equal(t, int64(1), m.NotificationsFailed())
	assert.Equal(t, int64(1), m.ErrorsTotal())
	assert.Equal(t, int64(120), m.SinkLatency())
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordNotificationSent(50)
	m.RecordError("storage", fmt.Errorf("disk full"))
	m.RecordError("storage", fmt.Errorf("disk still full"))
	m.RecordError("network", fmt.Errorf("timeout"))

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.NotificationsSentTotal)
	assert.Equal(t, int64(3), snap.ErrorsTotal)
	assert.Equal(t, int64(2), snap.ErrorsByCategory["storage"])
	assert.Equal(t, int64(1), snap.ErrorsByCategory["network"])
	assert.Equal(t, "timeout", snap.LastError)
	assert.NotNil(t, snap.LastNotificationAt)
	assert.NotNil(t, snap.LastErrorAt)
	assert.Nil(t, snap.LastFireAt)
}

func TestMetricsJSON(t *testing.T) {
	m := NewMetrics()
	m.RecordReminderFired("water")

	data, err := m.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reminders_fired_total": 1`)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordNotificationSent(50)
	m.RecordError("storage", fmt.Errorf("boom"))

	m.Reset()

	snap := m.Snapshot()
	assert.Equal(t, int64(0), snap.NotificationsSentTotal)
	assert.Equal(t, int64(0), snap.ErrorsTotal)
	assert.Empty(t, snap.ErrorsByCategory)
	assert.Empty(t, snap.LastError)
}

func TestGlobalMetricsIsRecorder(t *testing.T) {
	var recorder scheduler.MetricsRecorder = GlobalMetrics
	assert.NotNil(t, recorder)
}

// =============================================================================
// Health Checker Tests
// =============================================================================

func TestHealthCheckerHealthy(t *testing.T) {
	h := NewHealthChecker("1.2.3")

	status := h.Check()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Positive(t, status.Goroutines)
	assert.True(t, h.IsHealthy())
}

func TestHealthCheckerCustomCheckFails(t *testing.T) {
	h := NewHealthChecker("test")
	h.AddCheck("database", func() error { return fmt.Errorf("closed") })

	assert.Equal(t, "unhealthy", h.Check().Status)
	assert.False(t, h.IsHealthy())

	h.RemoveCheck("database")
	assert.True(t, h.IsHealthy())
}

func TestHealthCheckerPendingNotifications(t *testing.T) {
	h := NewHealthChecker("test")
	h.SetPendingNotifications(4)
	assert.Equal(t, 4, h.Check().PendingNotifications)
}

func TestHealthCheckerDetailedCheck(t *testing.T) {
	h := NewHealthChecker("test")
	h.AddCheck("ok", func() error { return nil })
	h.AddCheck("bad", func() error { return fmt.Errorf("broken") })

	details := h.DetailedCheck()
	assert.Equal(t, "unhealthy", details.Status)
	require.Len(t, details.Checks, 2)

	byName := map[string]CheckResult{}
	for _, c := range details.Checks {
		byName[c.Name] = c
	}
	assert.True(t, byName["ok"].Healthy)
	assert.False(t, byName["bad"].Healthy)
	assert.Equal(t, "broken", byName["bad"].Error)
}

// =============================================================================
// PID File Tests
// =============================================================================

func testPIDFile(t *testing.T) *PIDFile {
	return &PIDFile{path: filepath.Join(t.TempDir(), PIDFileName)}
}

func TestPIDFileWriteReadRemove(t *testing.T) {
	p := testPIDFile(t)
	assert.False(t, p.Exists())

	require.NoError(t, p.WritePID(12345))
	assert.True(t, p.Exists())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, 12345, pid)

	require.NoError(t, p.Remove())
	assert.False(t, p.Exists())

	_, err = p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestPIDFileRemoveMissingIsFine(t *testing.T) {
	p := testPIDFile(t)
	assert.NoError(t, p.Remove())
}

func TestPIDFileInvalidContents(t *testing.T) {
	p := testPIDFile(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(p.path), 0755))
	require.NoError(t, os.WriteFile(p.path, []byte("not-a-pid"), 0644))

	_, err := p.Read()
	assert.Error(t, err)
	assert.False(t, p.IsRunning())
}

func TestPIDFileIsRunning(t *testing.T) {
	p := testPIDFile(t)

	// Our own process is definitely alive
	require.NoError(t, p.Write())
	assert.True(t, p.IsRunning())
	assert.Equal(t, os.Getpid(), p.GetRunningPID())

	// A stale PID reads back but reports not running
	require.NoError(t, p.WritePID(99999999))
	assert.False(t, p.IsRunning())
	assert.Equal(t, 0, p.GetRunningPID())
}

func TestIsProcessRunning(t *testing.T) {
	assert.True(t, IsProcessRunning(os.Getpid()))
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
	assert.False(t, IsProcessRunning(99999999))
}

// =============================================================================
// Uptime Formatting Tests
// =============================================================================

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{90 * time.Minute, "1h 30m"},
		{2 * time.Hour, "2h"},
		{26 * time.Hour, "1d 2h"},
		{48 * time.Hour, "2d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d), tt.want)
	}
}
