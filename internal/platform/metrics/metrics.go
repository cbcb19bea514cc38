package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests    uint64
	errorRequests    uint64
	rateLimited      uint64
	totalDurationMs  uint64
	boardWrites      uint64
	duplicates       uint64
	upstreamFailures uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) BoardWrite() {
	if c != nil {
		atomic.AddUint64(&c.boardWrites, 1)
	}
}

func (c *Collector) DuplicateSuppressed() {
	if c != nil {
		atomic.AddUint64(&c.duplicates, 1)
	}
}

func (c *Collector) UpstreamFailure() {
	if c != nil {
		atomic.AddUint64(&c.upstreamFailures, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"rateLimitedTotal":      limited,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"boardWritesTotal":      atomic.LoadUint64(&c.boardWrites),
		"duplicatesTotal":       atomic.LoadUint64(&c.duplicates),
		"upstreamFailuresTotal": atomic.LoadUint64(&c.upstreamFailures),
	}
}
