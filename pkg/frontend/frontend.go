// Package frontend serves the embedded dashboard page and its assets
package frontend

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	static "github.com/ethpandaops/injuryboard/frontend"
)

type handler struct {
	fileHandler http.Handler
	filesystem  fs.FS
}

// NewHandler creates the dashboard page handler. Unknown paths get index.html.
func NewHandler() (http.Handler, error) {
	return newHandler(static.FS, "build/frontend")
}

func newHandler(fsys fs.FS, dir string) (http.Handler, error) {
	frontendFS, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load frontend filesystem: %w", err)
	}

	if _, err := fs.Stat(frontendFS, "index.html"); err != nil {
		return nil, fmt.Errorf("frontend has no index.html: %w", err)
	}

	h := &handler{
		filesystem:  frontendFS,
		fileHandler: http.FileServer(http.FS(frontendFS)),
	}

	return h, nil
}

// ServeHTTP serves assets by path and falls back to the dashboard page
func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	if h.isFile(path) && path != "index.html" {
		h.fileHandler.ServeHTTP(w, req)
		return
	}

	// index.html is always revalidated
	w.Header().Set("Cache-Control", "no-cache")

	req.URL.Path = "/"
	h.fileHandler.ServeHTTP(w, req)
}

func (h *handler) isFile(path string) bool {
	if path == "" {
		return false
	}

	info, err := fs.Stat(h.filesystem, path)

	return err == nil && !info.IsDir()
}
