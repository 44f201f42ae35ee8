// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Stream metrics (only for streamed completions)
	TotalChunks int64
	TotalBytes  int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`

	// Stream stats (nil if not applicable)
	TotalChunks *int64   `json:"total_chunks,omitempty"`
	TotalBytes  *int64   `json:"total_bytes,omitempty"`
	AvgChunks   *float64 `json:"avg_chunks,omitempty"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	ChatRequest   *OperationSnapshot `json:"chat_request,omitempty"`
	Embedding     *OperationSnapshot `json:"embedding,omitempty"`
	DocSearch     *OperationSnapshot `json:"doc_search,omitempty"`
	LLMStream     *OperationSnapshot `json:"llm_stream,omitempty"`
	ContactMail   *OperationSnapshot `json:"contact_mail,omitempty"`
}

// Operation names for the collector.
const (
	OpChatRequest = "chat_request"
	OpEmbedding   = "embedding"
	OpDocSearch   = "doc_search"
	OpLLMStream   = "llm_stream"
	OpContactMail = "contact_mail"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordStream records timing plus chunk and byte counts for a streamed
// completion.
func (c *Collector) RecordStream(op string, duration time.Duration, chunks, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}

	m.TotalChunks += chunks
	m.TotalBytes += bytes
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics, includeStream bool) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	snap := &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}

	if includeStream && m.TotalChunks > 0 {
		chunks := m.TotalChunks
		bytes := m.TotalBytes
		avgChunks := float64(m.TotalChunks) / float64(m.Count)
		snap.TotalChunks = &chunks
		snap.TotalBytes = &bytes
		snap.AvgChunks = &avgChunks
	}

	return snap
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		ChatRequest:   snapshotOp(c.ops[OpChatRequest], false),
		Embedding:     snapshotOp(c.ops[OpEmbedding], false),
		DocSearch:     snapshotOp(c.ops[OpDocSearch], false),
		LLMStream:     snapshotOp(c.ops[OpLLMStream], true),
		ContactMail:   snapshotOp(c.ops[OpContactMail], false),
	}
}
