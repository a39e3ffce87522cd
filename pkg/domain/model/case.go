package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/types"
)

// CaseSummary is the listing shape of a tracked investigation or complaint
type CaseSummary struct {
	ID       types.CaseID `json:"id" yaml:"id" firestore:"id"`
	Title    string       `json:"title" yaml:"title" firestore:"title"`
	Summary  string       `json:"summary" yaml:"summary" firestore:"summary"`
	Severity Severity     `json:"severity" yaml:"severity" firestore:"severity"`
}

// CaseDetail is the full case record served by the case API
type CaseDetail struct {
	CaseSummary `yaml:",inline"`
	Status      string   `json:"status" yaml:"status" firestore:"status"`
	DamageEur   *int     `json:"damageEur" yaml:"damageEur" firestore:"damageEur"`
	SourceURLs  []string `json:"sourceUrls" yaml:"sourceUrls" firestore:"sourceUrls"`
}

// Validate checks the fields a seed record must carry. Severity is not range-checked.
func (c *CaseDetail) Validate() error {
	if c.ID == "" {
		return goerr.New("case ID is required")
	}
	if c.Title == "" {
		return goerr.New("case title is required", goerr.V("id", c.ID))
	}
	if c.Status == "" {
		return goerr.New("case status is required", goerr.V("id", c.ID))
	}
	return nil
}

// Normalize fills defaults so the record serializes the same way regardless of its source
func (c *CaseDetail) Normalize() {
	if c.SourceURLs == nil {
		c.SourceURLs = []string{}
	}
}
