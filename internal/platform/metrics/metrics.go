// Package metrics keeps in-process request counters for the reports
// endpoint. Counters are typed atomics; handlers on the hot path never take
// a lock.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	requests     atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
	rateLimited  atomic.Uint64
	durationMs   atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	c.durationMs.Add(uint64(duration.Milliseconds()))
	switch {
	case status >= http.StatusInternalServerError:
		c.serverErrors.Add(1)
	case status == http.StatusTooManyRequests:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= http.StatusBadRequest:
		c.clientErrors.Add(1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := c.requests.Load()
	var avg float64
	if total > 0 {
		avg = float64(c.durationMs.Load()) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"clientErrors":     c.clientErrors.Load(),
		"serverErrors":     c.serverErrors.Load(),
		"rateLimitedTotal": c.rateLimited.Load(),
		"avgDurationMs":    avg,
	}
}
