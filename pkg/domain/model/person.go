package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/types"
)

// Person is an individual referenced by cases
type Person struct {
	ID        types.PersonID `json:"id" yaml:"id" firestore:"id"`
	Name      string         `json:"name" yaml:"name" firestore:"name"`
	BirthDate *string        `json:"birthDate" yaml:"birthDate" firestore:"birthDate"`
	Function  *string        `json:"function" yaml:"function" firestore:"function"`
}

// Validate validates the person
func (p *Person) Validate() error {
	if p.ID == "" {
		return goerr.New("person ID is required")
	}
	if p.Name == "" {
		return goerr.New("person name is required", goerr.V("id", p.ID))
	}
	return nil
}
