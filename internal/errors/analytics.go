package errors

import (
	"sync"
	"time"
)

// ErrorAnalytics aggregates request errors by code and by route
type ErrorAnalytics struct {
	mu            sync.RWMutex
	TotalErrors   int
	ErrorsByCode  map[ErrorCode]int
	ErrorsByPath  map[string]int
	LastErrorTime time.Time
}

// NewErrorAnalytics creates an empty aggregator
func NewErrorAnalytics() *ErrorAnalytics {
	return &ErrorAnalytics{
		ErrorsByCode: make(map[ErrorCode]int),
		ErrorsByPath: make(map[string]int),
	}
}

// Record counts one error seen on path
func (a *ErrorAnalytics) Record(err error, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.TotalErrors++
	a.ErrorsByCode[CodeOf(err)]++
	a.ErrorsByPath[path]++
	a.LastErrorTime = time.Now()
}

// GetStats returns a snapshot of the counters
func (a *ErrorAnalytics) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	byCode := make(map[ErrorCode]int, len(a.ErrorsByCode))
	for k, v := range a.ErrorsByCode {
		byCode[k] = v
	}
	byPath := make(map[string]int, len(a.ErrorsByPath))
	for k, v := range a.ErrorsByPath {
		byPath[k] = v
	}

	return map[string]interface{}{
		"total_errors":   a.TotalErrors,
		"errors_by_code": byCode,
		"errors_by_path": byPath,
		"last_error":     a.LastErrorTime,
	}
}
