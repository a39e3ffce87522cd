package caseapi

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcome label values
const (
	OutcomeOK             = "ok"
	OutcomeTransport      = "transport"
	OutcomeResponseStatus = "response_status"
	OutcomeParse          = "parse"
)

// Metrics records case fetch outcomes
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// NewMetrics creates fetch metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parazit",
			Name:      "case_fetch_total",
			Help:      "Number of case list fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parazit",
			Name:      "case_fetch_duration_seconds",
			Help:      "Duration of case list fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, outcome := range []string{OutcomeOK, OutcomeTransport, OutcomeResponseStatus, OutcomeParse} {
		m.fetchTotal.WithLabelValues(outcome)
	}

	if reg != nil {
		reg.MustRegister(m.fetchTotal, m.fetchDuration)
	}
	return m
}

func (m *Metrics) observe(result *FetchResult) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(Outcome(result.Err)).Inc()
	m.fetchDuration.Observe(result.Duration.Seconds())
}

// Outcome maps a fetch error to its outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case goerr.HasTag(err, ErrTagResponseStatus):
		return OutcomeResponseStatus
	case goerr.HasTag(err, ErrTagParse):
		return OutcomeParse
	default:
		return OutcomeTransport
	}
}
