package usecase

import (
	"context"

	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/domain/model"
)

// Static page copy
const (
	PlatformName         = "Parazit.sk"
	PlatformTagline      = "Platforma pre transparentné Slovensko"
	CaseListSectionTitle = "Prehľad monitorovaných káuz"

	// CaseListEmptyMessage is shown both when the fetch failed and when no cases exist
	CaseListEmptyMessage = "Nepodarilo sa načítať dáta o kauzách alebo žiadne kauzy neboli nájdené. " +
		"Skontrolujte, či je backend API spustené a či existujú dátové súbory."
)

// CaseList builds the public case overview page
type CaseList struct {
	fetcher interfaces.CaseFetcher
}

var _ interfaces.CaseList = (*CaseList)(nil)

// NewCaseList creates a new case list use case
func NewCaseList(fetcher interfaces.CaseFetcher) *CaseList {
	return &CaseList{
		fetcher: fetcher,
	}
}

// Page fetches the current cases and renders them. It never fails.
func (uc *CaseList) Page(ctx context.Context) *model.CaseListPage {
	cases := uc.fetcher.FetchCases(ctx)
	return RenderCaseList(cases)
}

// RenderCaseList projects cases into the overview page in input order.
// An empty input yields the fallback message and no case blocks.
func RenderCaseList(cases []model.CaseSummary) *model.CaseListPage {
	page := &model.CaseListPage{
		Title:        PlatformName,
		Tagline:      PlatformTagline,
		SectionTitle: CaseListSectionTitle,
	}

	if len(cases) == 0 {
		page.EmptyMessage = CaseListEmptyMessage
		return page
	}

	page.Cases = make([]model.CaseBlock, 0, len(cases))
	for _, c := range cases {
		page.Cases = append(page.Cases, model.CaseBlock{
			Key:           c.ID,
			Title:         c.Title,
			Summary:       c.Summary,
			Severity:      c.Severity,
			SeverityLabel: c.Severity.Label(),
		})
	}
	return page
}
