package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/parazit/pkg/controller/http"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
	"github.com/secmon-lab/parazit/pkg/repository"
)

func ptr[T any](v T) *T {
	return &v
}

func newAPIServer(t *testing.T) *controller.Server {
	t.Helper()
	ctx := testContext()

	repo := repository.NewMemory()
	gt.NoError(t, repo.PutCase(ctx, &model.CaseDetail{
		CaseSummary: model.CaseSummary{ID: "b-case", Title: "Case B", Summary: "Second", Severity: 2},
		Status:      "open",
		SourceURLs:  []string{},
	})).Required()
	gt.NoError(t, repo.PutCase(ctx, &model.CaseDetail{
		CaseSummary: model.CaseSummary{ID: "a-case", Title: "Case A", Summary: "First", Severity: 4},
		Status:      "investigated",
		DamageEur:   ptr(1500000),
		SourceURLs:  []string{"https://example.com/a"},
	})).Required()
	gt.NoError(t, repo.PutPerson(ctx, &model.Person{
		ID:       "jan-novak",
		Name:     "Ján Novák",
		Function: ptr("poslanec"),
	})).Required()

	server, err := controller.NewAPIServer(ctx, ":8000", repo)
	gt.NoError(t, err).Required()
	return server
}

func serveAPI(server *controller.Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)
	return w
}

func TestAPIRoot(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/")

	gt.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Equal(t, "ok", resp["status"])
	gt.Equal(t, "Welcome to Parazit.sk API", resp["message"])
}

func TestAPIHealth(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/health")

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains(`"service":"parazit-api"`)
}

func TestAPIListCases(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/api/v1/cases")

	gt.Equal(t, http.StatusOK, w.Code)
	gt.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var cases []model.CaseSummary
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &cases)).Required()
	gt.Equal(t, 2, len(cases))
	gt.Equal(t, types.CaseID("a-case"), cases[0].ID)
	gt.Equal(t, types.CaseID("b-case"), cases[1].ID)
	gt.Equal(t, model.Severity(4), cases[0].Severity)

	// Summaries carry only the listing fields
	var raw []map[string]any
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw)).Required()
	_, hasStatus := raw[0]["status"]
	gt.False(t, hasStatus)
}

func TestAPIListCasesEmpty(t *testing.T) {
	server, err := controller.NewAPIServer(testContext(), ":8000", repository.NewMemory())
	gt.NoError(t, err).Required()

	w := serveAPI(server, "/api/v1/cases")

	gt.Equal(t, http.StatusOK, w.Code)
	gt.Equal(t, "[]\n", w.Body.String())
}

func TestAPIGetCase(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/api/v1/cases/a-case")

	gt.Equal(t, http.StatusOK, w.Code)

	var c model.CaseDetail
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &c)).Required()
	gt.Equal(t, types.CaseID("a-case"), c.ID)
	gt.Equal(t, "Case A", c.Title)
	gt.Equal(t, "investigated", c.Status)
	gt.V(t, c.DamageEur).NotNil()
	gt.True(t, c.DamageEur != nil && *c.DamageEur == 1500000)
	gt.Equal(t, []string{"https://example.com/a"}, c.SourceURLs)
}

func TestAPIGetCaseNullDamage(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/api/v1/cases/b-case")

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains(`"damageEur":null`)
	gt.S(t, w.Body.String()).Contains(`"sourceUrls":[]`)
}

func TestAPIGetCaseNotFound(t *testing.T) {
	w := serveAPI(newAPIServer(t), "/api/v1/cases/missing")

	gt.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Equal(t, "Case 'missing' not found.", resp["detail"])
}

func TestAPIPersons(t *testing.T) {
	server := newAPIServer(t)

	w := serveAPI(server, "/api/v1/persons")
	gt.Equal(t, http.StatusOK, w.Code)
	var persons []model.Person
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &persons)).Required()
	gt.Equal(t, 1, len(persons))
	gt.Equal(t, "Ján Novák", persons[0].Name)

	w = serveAPI(server, "/api/v1/persons/jan-novak")
	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains(`"birthDate":null`)
	gt.S(t, w.Body.String()).Contains(`"function":"poslanec"`)

	w = serveAPI(server, "/api/v1/persons/nobody")
	gt.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Equal(t, "Person 'nobody' not found.", resp["detail"])
}

// failingRepository fails every read
type failingRepository struct{}

func (failingRepository) ListCases(ctx context.Context) ([]*model.CaseDetail, error) {
	return nil, goerr.New("storage unavailable")
}

func (failingRepository) GetCase(ctx context.Context, id types.CaseID) (*model.CaseDetail, error) {
	return nil, goerr.New("storage unavailable")
}

func (failingRepository) ListPersons(ctx context.Context) ([]*model.Person, error) {
	return nil, goerr.New("storage unavailable")
}

func (failingRepository) GetPerson(ctx context.Context, id types.PersonID) (*model.Person, error) {
	return nil, goerr.New("storage unavailable")
}

func (failingRepository) Close() error { return nil }

func TestAPIRepositoryFailure(t *testing.T) {
	server, err := controller.NewAPIServer(testContext(), ":8000", failingRepository{})
	gt.NoError(t, err).Required()

	for _, path := range []string{"/api/v1/cases", "/api/v1/cases/x", "/api/v1/persons", "/api/v1/persons/x"} {
		t.Run(path, func(t *testing.T) {
			w := serveAPI(server, path)
			gt.Equal(t, http.StatusInternalServerError, w.Code)
			gt.S(t, w.Body.String()).Contains(`"detail"`)
		})
	}
}

func TestNewAPIServerRequiresRepository(t *testing.T) {
	_, err := controller.NewAPIServer(testContext(), ":8000", nil)
	gt.Error(t, err)
}
