package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/utils/apperr"
)

//go:embed templates/case_list.html
var templateFS embed.FS

var caseListTemplate = template.Must(template.ParseFS(templateFS, "templates/case_list.html"))

type pageHandler struct {
	caseList interfaces.CaseList
}

// HandleCaseList renders the public case overview
func (h *pageHandler) HandleCaseList(w http.ResponseWriter, r *http.Request) {
	page := h.caseList.Page(r.Context())

	var buf bytes.Buffer
	if err := caseListTemplate.Execute(&buf, page); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to render case list"))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
