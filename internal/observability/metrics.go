package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments counters keyed by taxonomy error code.
func (m *Metrics) RecordError(path, method string, errorCode int) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(errorCode)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// ErrorCount reads the counter for one path/method/code combination.
func (m *Metrics) ErrorCount(path, method string, errorCode int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[path+"|"+method+"|"+strconv.Itoa(errorCode)]
}
