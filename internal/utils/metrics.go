package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

// OperationStats summarizes recorded latencies for one operation.
type OperationStats struct {
	Count     int     `json:"count"`
	AvgMillis float64 `json:"avgMillis"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Snapshot returns per-operation counts and average latencies, for the
// health endpoint.
func (mc *MetricsCollector) Snapshot() map[string]OperationStats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	stats := make(map[string]OperationStats, len(mc.operationTimes))
	for name, samples := range mc.operationTimes {
		if len(samples) == 0 {
			continue
		}
		var total int64
		for _, ns := range samples {
			total += ns
		}
		stats[name] = OperationStats{
			Count:     len(samples),
			AvgMillis: float64(total) / float64(len(samples)) / 1e6,
		}
	}
	return stats
}

// Counts returns the total request and error counts.
func (mc *MetricsCollector) Counts() (requests uint64, errors uint64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.requestCount, mc.errorCount
}

// Uptime returns how long the collector (and so the process) has been running.
func (mc *MetricsCollector) Uptime() time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return time.Since(mc.systemStartTime)
}
