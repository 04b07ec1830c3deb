// Package server exposes the engine over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/ontograph-ai/ontograph"
)

// Options configures the HTTP surface.
type Options struct {
	// APIKey enables bearer-token authentication when non-empty.
	APIKey string

	// CORSOrigins lists allowed origins ("*" allows any). Empty
	// disables CORS headers.
	CORSOrigins []string
}

// Server wraps an engine with HTTP handlers and middleware.
type Server struct {
	engine  ontograph.Engine
	opts    Options
	handler http.Handler
}

// New builds the route table and middleware chain.
func New(e ontograph.Engine, opts Options) *Server {
	s := &Server{engine: e, opts: opts}

	h := &handler{engine: e}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ingest", h.handleIngest)
	mux.HandleFunc("POST /query", h.handleQuery)
	mux.HandleFunc("POST /update", h.handleUpdate)
	mux.HandleFunc("POST /update-all", h.handleUpdateAll)
	mux.HandleFunc("DELETE /documents/{id}", h.handleDeleteDocument)
	mux.HandleFunc("GET /documents", h.handleListDocuments)
	mux.HandleFunc("GET /ontology", h.handleOntologyExport)
	mux.HandleFunc("POST /ontology/validate", h.handleOntologyValidate)
	mux.HandleFunc("GET /contracts", h.handleListContracts)
	mux.HandleFunc("POST /contracts/validate", h.handleContractValidate)
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Middleware chain: recovery -> cors -> auth -> request id -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = authMiddleware(opts.APIKey, handler)
	handler = corsMiddleware(opts.CORSOrigins, handler)
	handler = recoveryMiddleware(handler)

	s.handler = handler
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
