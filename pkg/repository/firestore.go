package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	casesCollection   = "cases"
	personsCollection = "persons"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

var _ interfaces.Repository = (*Firestore)(nil)

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on invalid project or missing permissions
	_, err = client.Collection(casesCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// ListCases returns all cases ordered by ID
func (f *Firestore) ListCases(ctx context.Context) ([]*model.CaseDetail, error) {
	iter := f.client.Collection(casesCollection).Documents(ctx)
	defer iter.Stop()

	cases := []*model.CaseDetail{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var c model.CaseDetail
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("docID", doc.Ref.ID))
		}
		if c.ID == "" {
			c.ID = types.CaseID(doc.Ref.ID)
		}
		c.Normalize()
		cases = append(cases, &c)
	}

	// Sort in memory to avoid requiring an index
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID < cases[j].ID
	})

	return cases, nil
}

// GetCase retrieves a case by ID
func (f *Firestore) GetCase(ctx context.Context, id types.CaseID) (*model.CaseDetail, error) {
	if id == "" {
		return nil, goerr.New("case ID is empty")
	}

	doc, err := f.client.Collection(casesCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrCaseNotFound, "failed to get case", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case from firestore", goerr.V("id", id))
	}

	var c model.CaseDetail
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}
	if c.ID == "" {
		c.ID = id
	}
	c.Normalize()

	return &c, nil
}

// ListPersons returns all persons ordered by ID
func (f *Firestore) ListPersons(ctx context.Context) ([]*model.Person, error) {
	iter := f.client.Collection(personsCollection).Documents(ctx)
	defer iter.Stop()

	persons := []*model.Person{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate persons")
		}

		var p model.Person
		if err := doc.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode person", goerr.V("docID", doc.Ref.ID))
		}
		if p.ID == "" {
			p.ID = types.PersonID(doc.Ref.ID)
		}
		persons = append(persons, &p)
	}

	sort.Slice(persons, func(i, j int) bool {
		return persons[i].ID < persons[j].ID
	})

	return persons, nil
}

// GetPerson retrieves a person by ID
func (f *Firestore) GetPerson(ctx context.Context, id types.PersonID) (*model.Person, error) {
	if id == "" {
		return nil, goerr.New("person ID is empty")
	}

	doc, err := f.client.Collection(personsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrPersonNotFound, "failed to get person", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get person from firestore", goerr.V("id", id))
	}

	var p model.Person
	if err := doc.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to decode person", goerr.V("id", id))
	}
	if p.ID == "" {
		p.ID = id
	}

	return &p, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
