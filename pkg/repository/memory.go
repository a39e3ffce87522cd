package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu      sync.RWMutex
	cases   map[types.CaseID]*model.CaseDetail
	persons map[types.PersonID]*model.Person
}

var _ interfaces.Repository = (*Memory)(nil)

// NewMemory creates a new memory repository
func NewMemory() *Memory {
	return &Memory{
		cases:   make(map[types.CaseID]*model.CaseDetail),
		persons: make(map[types.PersonID]*model.Person),
	}
}

// PutCase stores a case, replacing any case with the same ID
func (m *Memory) PutCase(ctx context.Context, c *model.CaseDetail) error {
	if c == nil {
		return goerr.New("case is nil")
	}
	if c.ID == "" {
		return goerr.New("case ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cases[c.ID] = copyCase(c)
	return nil
}

// ListCases returns all cases ordered by ID
func (m *Memory) ListCases(ctx context.Context) ([]*model.CaseDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cases := make([]*model.CaseDetail, 0, len(m.cases))
	for _, c := range m.cases {
		cases = append(cases, copyCase(c))
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID < cases[j].ID
	})

	return cases, nil
}

// GetCase retrieves a case by ID
func (m *Memory) GetCase(ctx context.Context, id types.CaseID) (*model.CaseDetail, error) {
	if id == "" {
		return nil, goerr.New("case ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, exists := m.cases[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrCaseNotFound, "failed to get case", goerr.V("id", id))
	}

	return copyCase(c), nil
}

// PutPerson stores a person, replacing any person with the same ID
func (m *Memory) PutPerson(ctx context.Context, p *model.Person) error {
	if p == nil {
		return goerr.New("person is nil")
	}
	if p.ID == "" {
		return goerr.New("person ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.persons[p.ID] = copyPerson(p)
	return nil
}

// ListPersons returns all persons ordered by ID
func (m *Memory) ListPersons(ctx context.Context) ([]*model.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	persons := make([]*model.Person, 0, len(m.persons))
	for _, p := range m.persons {
		persons = append(persons, copyPerson(p))
	}

	sort.Slice(persons, func(i, j int) bool {
		return persons[i].ID < persons[j].ID
	})

	return persons, nil
}

// GetPerson retrieves a person by ID
func (m *Memory) GetPerson(ctx context.Context, id types.PersonID) (*model.Person, error) {
	if id == "" {
		return nil, goerr.New("person ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.persons[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrPersonNotFound, "failed to get person", goerr.V("id", id))
	}

	return copyPerson(p), nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}

// copyCase returns a deep copy to prevent external modification
func copyCase(c *model.CaseDetail) *model.CaseDetail {
	caseCopy := *c
	if c.DamageEur != nil {
		damage := *c.DamageEur
		caseCopy.DamageEur = &damage
	}
	if c.SourceURLs != nil {
		caseCopy.SourceURLs = append([]string{}, c.SourceURLs...)
	}
	return &caseCopy
}

func copyPerson(p *model.Person) *model.Person {
	personCopy := *p
	if p.BirthDate != nil {
		birthDate := *p.BirthDate
		personCopy.BirthDate = &birthDate
	}
	if p.Function != nil {
		function := *p.Function
		personCopy.Function = &function
	}
	return &personCopy
}
