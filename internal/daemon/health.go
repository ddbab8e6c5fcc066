package daemon

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"
)

// HealthStatus is the daemon health snapshot served by status commands.
type HealthStatus struct {
	Status               string    `json:"status"`
	UptimeSeconds        int64     `json:"uptime_seconds"`
	MemoryMB             float64   `json:"memory_mb"`
	PendingNotifications int       `json:"pending_notifications"`
	LastCheck            time.Time `json:"last_check"`
	Version              string    `json:"version,omitempty"`
	Goroutines           int       `json:"goroutines"`
}

// HealthChecker aggregates built-in process stats with named custom
// checks (database, scheduler) registered at daemon start.
type HealthChecker struct {
	mu            sync.RWMutex
	startTime     time.Time
	lastCheck     time.Time
	pendingNotifs int
	version       string
	customChecks  map[string]func() error
}

// NewHealthChecker creates a health checker for the given version.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime:    time.Now(),
		version:      version,
		customChecks: make(map[string]func() error),
	}
}

// AddCheck registers a named custom health check.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.customChecks[name] = check
}

// RemoveCheck unregisters a custom health check.
func (h *HealthChecker) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.customChecks, name)
}

// SetPendingNotifications updates the pending delivery count.
func (h *HealthChecker) SetPendingNotifications(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pendingNotifs = count
}

// Check runs all checks and returns the current status.
func (h *HealthChecker) Check() *HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.mu.Lock()
	h.lastCheck = time.Now()
	pending := h.pendingNotifs
	lastCheck := h.lastCheck
	h.mu.Unlock()

	return &HealthStatus{
		Status:               h.determineStatus(),
		UptimeSeconds:        int64(time.Since(h.startTime).Seconds()),
		MemoryMB:             float64(memStats.Alloc) / 1024 / 1024,
		PendingNotifications: pending,
		LastCheck:            lastCheck,
		Version:              h.version,
		Goroutines:           runtime.NumGoroutine(),
	}
}

// determineStatus is unhealthy as soon as any custom check fails.
func (h *HealthChecker) determineStatus() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, check := range h.customChecks {
		if err := check(); err != nil {
			return "unhealthy"
		}
	}
	return "healthy"
}

// IsHealthy reports whether every check passes.
func (h *HealthChecker) IsHealthy() bool {
	return h.determineStatus() == "healthy"
}

// Uptime returns how long the daemon has been running.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// JSON returns the health status as indented JSON.
func (h *HealthChecker) JSON() ([]byte, error) {
	return json.MarshalIndent(h.Check(), "", "  ")
}

// CheckResult is the outcome of one named custom check.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// MemoryDetails breaks down process memory usage.
type MemoryDetails struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
	LastGC       string  `json:"last_gc,omitempty"`
}

// DetailedHealth extends the basic status with memory details and
// per-check results.
type DetailedHealth struct {
	HealthStatus
	MemoryDetails MemoryDetails `json:"memory_details"`
	Checks        []CheckResult `json:"checks"`
}

// DetailedCheck runs every check individually and reports memory stats.
func (h *HealthChecker) DetailedCheck() *DetailedHealth {
	basic := h.Check()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	details := &DetailedHealth{
		HealthStatus: *basic,
		MemoryDetails: MemoryDetails{
			AllocMB:      float64(memStats.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(memStats.Sys) / 1024 / 1024,
			NumGC:        memStats.NumGC,
		},
	}
	if memStats.LastGC > 0 {
		details.MemoryDetails.LastGC = time.Unix(0, int64(memStats.LastGC)).Format(time.RFC3339)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for name, check := range h.customChecks {
		result := CheckResult{Name: name, Healthy: true}
		if err := check(); err != nil {
			result.Healthy = false
			result.Error = err.Error()
		}
		details.Checks = append(details.Checks, result)
	}

	return details
}
