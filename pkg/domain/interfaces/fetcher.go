package interfaces

import (
	"context"
	"net/http"

	"github.com/secmon-lab/parazit/pkg/domain/model"
)

// CaseFetcher retrieves the current case listing. Implementations never fail:
// any problem reaching the data source yields an empty sequence.
type CaseFetcher interface {
	FetchCases(ctx context.Context) []model.CaseSummary
}

// HTTPClient abstracts outbound HTTP; *http.Client satisfies it
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
