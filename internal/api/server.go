// Package api exposes the table catalog and the record gateway over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"tableadmin/internal/db"
	"tableadmin/internal/gateway"
	"tableadmin/internal/ident"
	"tableadmin/internal/introspect"
	"tableadmin/internal/seed"
)

var errBadPath = errors.New("invalid path")

// maxBodyBytes bounds request bodies of writes.
const maxBodyBytes = 1 << 20

// Options configures the optional parts of the server.
type Options struct {
	// WebDir is served at / when set.
	WebDir string

	// SeedFile is run by POST /api/seed when set.
	SeedFile string

	// Seeder runs the seed script, usually the shared pool.
	Seeder db.Executor
}

// Server holds the handlers. It keeps no per-request state.
type Server struct {
	catalog *introspect.Catalog
	gateway *gateway.Gateway
	opts    Options
	router  *mux.Router
}

// New builds the server and its routes.
func New(catalog *introspect.Catalog, gw *gateway.Gateway, opts Options) *Server {
	s := &Server{catalog: catalog, gateway: gw, opts: opts}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	// names are matched undecoded and uncleaned so that "..", "%2F" and the
	// like reach tableName and are rejected as identifiers
	r := mux.NewRouter().SkipClean(true).UseEncodedPath()
	r.Use(logRequests, recoverPanics)

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/tables", s.listTables).Methods(http.MethodGet)
	a.HandleFunc("/table/{name}", s.listRows).Methods(http.MethodGet)
	a.HandleFunc("/table/{name}", s.createRow).Methods(http.MethodPost)
	a.HandleFunc("/table/{name}/schema", s.tableSchema).Methods(http.MethodGet)
	a.HandleFunc("/table/{name}/{id}", s.updateRow).Methods(http.MethodPut)
	a.HandleFunc("/table/{name}/{id}", s.deleteRow).Methods(http.MethodDelete)
	a.HandleFunc("/seed", s.runSeed).Methods(http.MethodPost)
	a.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
	a.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})

	if s.opts.WebDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.opts.WebDir)))
	}
	return r
}

// tableName returns the {name} path variable, rejecting it before any body
// is read when it is not a plain identifier.
func tableName(r *http.Request) (string, error) {
	name := mux.Vars(r)["name"]
	if !ident.Valid(name) {
		return "", gateway.ErrInvalidIdentifier
	}
	return name, nil
}

// rowID returns the decoded {id} path variable.
func rowID(r *http.Request) (string, error) {
	id, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadPath, err)
	}
	return id, nil
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.catalog.Tables(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) listRows(w http.ResponseWriter, r *http.Request) {
	name, err := tableName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.gateway.List(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) tableSchema(w http.ResponseWriter, r *http.Request) {
	name, err := tableName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cols, err := s.catalog.Columns(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) createRow(w http.ResponseWriter, r *http.Request) {
	name, err := tableName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := gateway.DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.gateway.Create(r.Context(), name, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateRow(w http.ResponseWriter, r *http.Request) {
	name, err := tableName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := gateway.DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := rowID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.gateway.Update(r.Context(), name, id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	name, err := tableName(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := rowID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.gateway.Delete(r.Context(), name, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) runSeed(w http.ResponseWriter, r *http.Request) {
	if s.opts.Seeder == nil {
		writeError(w, r, seed.ErrNoScript)
		return
	}
	if err := seed.Run(r.Context(), s.opts.Seeder, s.opts.SeedFile); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database seeded successfully"})
}
