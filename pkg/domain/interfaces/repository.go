package interfaces

import (
	"context"

	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
)

// Repository defines read access to the case API data set
type Repository interface {
	// Case operations
	ListCases(ctx context.Context) ([]*model.CaseDetail, error)
	GetCase(ctx context.Context, id types.CaseID) (*model.CaseDetail, error)

	// Person operations
	ListPersons(ctx context.Context) ([]*model.Person, error)
	GetPerson(ctx context.Context, id types.PersonID) (*model.Person, error)

	// Close closes the repository connection
	Close() error
}
