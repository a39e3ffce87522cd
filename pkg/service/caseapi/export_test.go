package caseapi

import "github.com/prometheus/client_golang/prometheus/testutil"

// FetchCount returns the recorded number of fetches for outcome
func (m *Metrics) FetchCount(outcome string) float64 {
	return testutil.ToFloat64(m.fetchTotal.WithLabelValues(outcome))
}
