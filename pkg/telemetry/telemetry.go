package telemetry

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//Counter identifies one of the session counters
type Counter int

const (
	BoxesCreated Counter = iota
	BoxesDiscarded
	BoxesEdited
	BoxesRelabelled
	BoxesDeleted
	SubmitSucceeded
	SubmitBlocked
	SubmitFailed
	AutoSaveFailed
	RecordsSubmitted
	RecordsDeleted
	MetricsComputed
	ReportsRendered
	VideosRendered
	counterCount
)

var counterInfo = [counterCount]struct{ name, help string }{
	BoxesCreated:     {"boxes_created_total", "Boxes drawn by reviewers"},
	BoxesDiscarded:   {"boxes_discarded_total", "Drawn boxes discarded for being smaller than the minimum size"},
	BoxesEdited:      {"boxes_edited_total", "Boxes moved or resized"},
	BoxesRelabelled:  {"boxes_relabelled_total", "Boxes relabelled"},
	BoxesDeleted:     {"boxes_deleted_total", "Reviewer boxes deleted"},
	SubmitSucceeded:  {"submit_succeeded_total", "Submissions acknowledged by the backend"},
	SubmitBlocked:    {"submit_blocked_total", "Submissions refused because unlabelled boxes remain"},
	SubmitFailed:     {"submit_failed_total", "Submissions that failed in transport"},
	AutoSaveFailed:   {"autosave_failed_total", "Automatic submissions that did not go through"},
	RecordsSubmitted: {"records_submitted_total", "Modified records sent to the backend"},
	RecordsDeleted:   {"records_deleted_total", "Deleted records reported to the backend"},
	MetricsComputed:  {"metrics_computed_total", "Scoring passes"},
	ReportsRendered:  {"reports_rendered_total", "Metric reports rendered or exported"},
	VideosRendered:   {"videos_rendered_total", "Review videos rendered with the corrected boxes"},
}

//Telemetry counts what happens in a review session. A nil *Telemetry is valid and counts nothing
type Telemetry struct {
	counters         [counterCount]atomic.Uint64
	pendingDeletions atomic.Int64

	registry *prometheus.Registry
}

//New returns a Telemetry with its own prometheus registry
func New() *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
	}

	t.registerPrometheusMetrics()
	return t
}

func (t *Telemetry) registerPrometheusMetrics() {
	for i := range t.counters {
		c := &t.counters[i]
		t.registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: "model_checker",
				Name:      counterInfo[i].name,
				Help:      counterInfo[i].help,
			},
			func() float64 { return float64(c.Load()) },
		))
	}

	t.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "model_checker",
			Name:      "pending_deletions",
			Help:      "Deleted records not reported to the backend yet",
		},
		func() float64 { return float64(t.pendingDeletions.Load()) },
	))
}

//Inc adds one to given counter
func (t *Telemetry) Inc(c Counter) {
	t.Add(c, 1)
}

//Add adds n to given counter
func (t *Telemetry) Add(c Counter, n int) {
	if t == nil || n <= 0 || c < 0 || c >= counterCount {
		return
	}
	t.counters[c].Add(uint64(n))
}

//Get returns the current value of given counter
func (t *Telemetry) Get(c Counter) uint64 {
	if t == nil || c < 0 || c >= counterCount {
		return 0
	}
	return t.counters[c].Load()
}

//SetPendingDeletions records the current size of the deletion ledger
func (t *Telemetry) SetPendingDeletions(n int) {
	if t == nil {
		return
	}
	t.pendingDeletions.Store(int64(n))
}

//Handler returns the Prometheus HTTP handler
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
