package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-memory counters for ticket API calls and served requests.
type Metrics struct {
	mu           sync.Mutex
	callCount    map[string]int64
	failureCount map[string]int64
	callLatency  map[string]time.Duration
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		callCount:    make(map[string]int64),
		failureCount: make(map[string]int64),
		callLatency:  make(map[string]time.Duration),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordCall counts an outbound ticket API call.
func (m *Metrics) RecordCall(endpoint, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(endpoint, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[key]++
	m.callLatency[endpoint+"|"+method] += duration
}

// RecordFailure counts a failed outbound call by error code.
func (m *Metrics) RecordFailure(endpoint, method, code string) {
	if m == nil {
		return
	}
	key := endpoint + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureCount[key]++
}

// RecordRequest counts a request served by the presentation server.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError counts a served request that ended in an error response.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// MetricsSnapshot is a copy of the counters safe to serialize.
type MetricsSnapshot struct {
	Calls    map[string]int64 `json:"calls"`
	Failures map[string]int64 `json:"failures"`
	Requests map[string]int64 `json:"requests"`
	Errors   map[string]int64 `json:"errors"`
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Calls:    map[string]int64{},
		Failures: map[string]int64{},
		Requests: map[string]int64{},
		Errors:   map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.callCount {
		snap.Calls[k] = v
	}
	for k, v := range m.failureCount {
		snap.Failures[k] = v
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	return snap
}

// FailureKeys lists the recorded failure keys in sorted order.
func (s MetricsSnapshot) FailureKeys() []string {
	keys := make([]string, 0, len(s.Failures))
	for k := range s.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
