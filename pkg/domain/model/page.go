package model

import "github.com/secmon-lab/parazit/pkg/domain/types"

// CaseListPage is the rendered document of the public case overview.
// Either Cases is non-empty or EmptyMessage is set, never both.
type CaseListPage struct {
	Title        string
	Tagline      string
	SectionTitle string
	Cases        []CaseBlock
	EmptyMessage string
}

// IsEmpty returns true if the page shows the fallback message instead of cases
func (p *CaseListPage) IsEmpty() bool {
	return len(p.Cases) == 0
}

// CaseBlock is one rendered case; Key is the stable rendering key
type CaseBlock struct {
	Key           types.CaseID
	Title         string
	Summary       string
	Severity      Severity
	SeverityLabel string
}
