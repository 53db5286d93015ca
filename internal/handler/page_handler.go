package handler

import (
	"net/http"
	"path/filepath"
)

// PageHandler serves the two HTML pages and the rest of the static tree.
type PageHandler struct {
	dir   string
	files http.Handler
}

func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir, files: http.FileServer(http.Dir(dir))}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}

func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.dir, "admin-panel.html"))
}

// Static serves any other file under the static directory.
func (h *PageHandler) Static(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
