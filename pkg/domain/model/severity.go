package model

import "fmt"

// Severity is a case seriousness rating on the SeverityScaleMin..SeverityScaleMax scale.
// Values outside the scale are carried and displayed as received.
type Severity int

const (
	SeverityScaleMin = 1
	SeverityScaleMax = 5
)

// Int returns the raw rating
func (s Severity) Int() int {
	return int(s)
}

// InScale reports whether the rating lies within the declared scale
func (s Severity) InScale() bool {
	return s >= SeverityScaleMin && s <= SeverityScaleMax
}

// Label renders the rating against the scale maximum, e.g. "4 / 5"
func (s Severity) Label() string {
	return fmt.Sprintf("%d / %d", int(s), SeverityScaleMax)
}
