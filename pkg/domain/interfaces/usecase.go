package interfaces

import (
	"context"

	"github.com/secmon-lab/parazit/pkg/domain/model"
)

// CaseList defines the interface for the public case overview
type CaseList interface {
	Page(ctx context.Context) *model.CaseListPage
}
