package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

type Collector struct {
	requests     atomic.Uint64
	errors       atomic.Uint64
	applications atomic.Uint64
	rateLimited  atomic.Uint64
}

type Snapshot struct {
	Requests     uint64
	Errors       uint64
	Applications uint64
	RateLimited  uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	c.requests.Add(1)
}

// IncErrors counts 5xx responses.
func (c *Collector) IncErrors() {
	c.errors.Add(1)
}

func (c *Collector) IncApplications() {
	c.applications.Add(1)
}

func (c *Collector) IncRateLimited() {
	c.rateLimited.Add(1)
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:     c.requests.Load(),
		Errors:       c.errors.Load(),
		Applications: c.applications.Load(),
		RateLimited:  c.rateLimited.Load(),
	}
}

type Handler struct {
	collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{collector: collector}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var snap Snapshot
	if h.collector != nil {
		snap = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeCounter(w, "jobboard_http_requests_total", "Total number of HTTP requests.", snap.Requests)
	writeCounter(w, "jobboard_http_errors_total", "Total number of 5xx HTTP responses.", snap.Errors)
	writeCounter(w, "jobboard_applications_submitted_total", "Total number of submitted job applications.", snap.Applications)
	writeCounter(w, "jobboard_rate_limited_total", "Total number of rate limited requests.", snap.RateLimited)
}

func writeCounter(w http.ResponseWriter, name, help string, value uint64) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s counter\n", name)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
