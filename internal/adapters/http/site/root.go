// Package site handles requests to the site root.
package site

import (
	"context"
	"net/http"
)

// DocsPath is where the root redirects.
const DocsPath = "/api-docs"

// Register attaches the root handler to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot redirects GET / to the API docs. Every other path that reached
// the catch-all is not found.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, DocsPath, http.StatusFound)
}
