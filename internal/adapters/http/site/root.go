// Package site serves the landing page and the embedded methodology docs.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page at / and the docs under /docs/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /docs/", http.StripPrefix("/docs", files))
}
