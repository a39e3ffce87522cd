package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS embeds the static assets of the public pages
//
//go:embed static
var FS embed.FS

// GetHTTPFS returns the embedded static filesystem for HTTP serving
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return nil, err
	}

	// The stylesheet is the only asset the case page links
	if _, err := fs.Stat(sub, "style.css"); err != nil {
		return nil, err
	}

	return http.FS(sub), nil
}
