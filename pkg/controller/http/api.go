package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/domain/model"
	"github.com/secmon-lab/parazit/pkg/domain/types"
	"github.com/secmon-lab/parazit/pkg/utils/apperr"
)

// NewAPIServer creates the case API server backed by repo
func NewAPIServer(ctx context.Context, addr string, repo interfaces.Repository) (*Server, error) {
	if repo == nil {
		return nil, goerr.New("repository is required")
	}

	router := newRouter(ctx, "parazit-api", false)
	api := &apiHandler{repo: repo}

	router.Get("/", api.handleRoot)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/cases", api.handleListCases)
		r.Get("/cases/{caseID}", api.handleGetCase)
		r.Get("/persons", api.handleListPersons)
		r.Get("/persons/{personID}", api.handleGetPerson)
	})

	return newServer(addr, router), nil
}

type apiHandler struct {
	repo interfaces.Repository
}

func (h *apiHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Welcome to Parazit.sk API",
	})
}

func (h *apiHandler) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.repo.ListCases(r.Context())
	if err != nil {
		apperr.HandleHTTP(w, r, err, http.StatusInternalServerError, "Failed to list cases.")
		return
	}

	summaries := make([]model.CaseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, c.CaseSummary)
	}
	writeJSON(w, r, http.StatusOK, summaries)
}

func (h *apiHandler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id := types.CaseID(chi.URLParam(r, "caseID"))

	c, err := h.repo.GetCase(r.Context(), id)
	switch {
	case errors.Is(err, model.ErrCaseNotFound):
		writeJSON(w, r, http.StatusNotFound, map[string]string{
			"detail": fmt.Sprintf("Case '%s' not found.", id),
		})
	case err != nil:
		apperr.HandleHTTP(w, r, err, http.StatusInternalServerError, "Failed to get case.")
	default:
		writeJSON(w, r, http.StatusOK, c)
	}
}

func (h *apiHandler) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.repo.ListPersons(r.Context())
	if err != nil {
		apperr.HandleHTTP(w, r, err, http.StatusInternalServerError, "Failed to list persons.")
		return
	}
	if persons == nil {
		persons = []*model.Person{}
	}
	writeJSON(w, r, http.StatusOK, persons)
}

func (h *apiHandler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id := types.PersonID(chi.URLParam(r, "personID"))

	p, err := h.repo.GetPerson(r.Context(), id)
	switch {
	case errors.Is(err, model.ErrPersonNotFound):
		writeJSON(w, r, http.StatusNotFound, map[string]string{
			"detail": fmt.Sprintf("Person '%s' not found.", id),
		})
	case err != nil:
		apperr.HandleHTTP(w, r, err, http.StatusInternalServerError, "Failed to get person.")
	default:
		writeJSON(w, r, http.StatusOK, p)
	}
}
