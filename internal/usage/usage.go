package usage

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of the process-wide usage counters.
type Stats struct {
	TotalRequests int64 `json:"total_requests"`
	TotalTokens   int64 `json:"total_tokens"`
	TotalImages   int64 `json:"total_images"`
	LastReset     int64 `json:"last_reset"`
}

// Tracker counts provider usage. Injected into the orchestrators so tests
// can substitute a fake and assert exact increments.
type Tracker interface {
	AddRequests(n int64)
	AddTokens(n int64)
	AddImages(n int64)
	Snapshot() Stats
	Reset()
}

// Counter is the default Tracker, backed by atomics. Safe for concurrent
// increments from multiple jobs.
type Counter struct {
	requests  atomic.Int64
	tokens    atomic.Int64
	images    atomic.Int64
	lastReset atomic.Int64
}

func NewCounter() *Counter {
	c := &Counter{}
	c.lastReset.Store(time.Now().Unix())
	return c
}

func (c *Counter) AddRequests(n int64) { c.requests.Add(n) }
func (c *Counter) AddTokens(n int64)   { c.tokens.Add(n) }
func (c *Counter) AddImages(n int64)   { c.images.Add(n) }

func (c *Counter) Snapshot() Stats {
	return Stats{
		TotalRequests: c.requests.Load(),
		TotalTokens:   c.tokens.Load(),
		TotalImages:   c.images.Load(),
		LastReset:     c.lastReset.Load(),
	}
}

// Reset zeroes the counters. Never called automatically.
func (c *Counter) Reset() {
	c.requests.Store(0)
	c.tokens.Store(0)
	c.images.Store(0)
	c.lastReset.Store(time.Now().Unix())
}

var _ Tracker = (*Counter)(nil)

// Noop discards all increments. Used when usage tracking is disabled.
type Noop struct{}

func (Noop) AddRequests(int64) {}
func (Noop) AddTokens(int64)   {}
func (Noop) AddImages(int64)   {}
func (Noop) Snapshot() Stats   { return Stats{} }
func (Noop) Reset()            {}

var _ Tracker = Noop{}
