package types

import (
	"fmt"

	"github.com/google/uuid"
)

// CaseID represents a case identifier as issued by the case API
type CaseID string

// String returns the string representation
func (id CaseID) String() string {
	return string(id)
}

// PersonID represents a person identifier as issued by the case API
type PersonID string

// String returns the string representation
func (id PersonID) String() string {
	return string(id)
}

// FetchID identifies a single outbound case fetch for log correlation
type FetchID string

// String returns the string representation
func (id FetchID) String() string {
	return string(id)
}

// NewFetchID creates a new FetchID
func NewFetchID() FetchID {
	return FetchID(fmt.Sprintf("fetch-%s", uuid.New().String()))
}
