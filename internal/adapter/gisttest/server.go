// Package gisttest provides an in-memory GitHub Gist API for tests.
//
// It implements the endpoints the gist adapter uses: listing, creation,
// conditional reads with If-None-Match, conditional updates with If-Match,
// and raw file downloads for truncated files. Each gist carries a version
// that becomes its ETag and advances on every write.
package gisttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-cookie-sync/internal/utils"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/go-chi/chi/v5"
)

// Server is a fake GitHub Gist API backed by memory.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	gists   map[string]*entry
	order   []string
	nextID  int
	calls   map[string]int
	token   string
	truncAt int
}

type entry struct {
	gist    models.Gist
	content map[string]string
	version int
}

// Option configures a [Server].
type Option func(*Server)

// WithToken makes the server reject requests whose bearer token differs.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithTruncation makes reads report files longer than n bytes as truncated,
// serving the full text from the raw URL only.
func WithTruncation(n int) Option {
	return func(s *Server) { s.truncAt = n }
}

// NewServer starts a fake Gist API. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		gists: make(map[string]*entry),
		calls: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.count, s.auth)
	r.Get("/gists", s.list)
	r.Post("/gists", s.create)
	r.Get("/gists/{id}", s.get)
	r.Patch("/gists/{id}", s.update)
	r.Get("/raw/{id}/{file}", s.raw)

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores a gist directly and returns its id.
func (s *Server) Seed(description string, files map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(description, files)
}

// Content returns the current text of one file, or "" if absent.
func (s *Server) Content(id, file string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.gists[id]; ok {
		return e.content[file]
	}
	return ""
}

// ETag returns the current ETag of gist id.
func (s *Server) ETag(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.gists[id]; ok {
		return etagOf(id, e.version)
	}
	return ""
}

// Write replaces a file as another client would, advancing the version.
func (s *Server) Write(id, file, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.gists[id]; ok {
		e.content[file] = content
		e.version++
	}
}

// Delete removes gist id.
func (s *Server) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gists, id)
}

// Calls returns how many requests were made with method, e.g. "PATCH".
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Server) insert(description string, files map[string]string) string {
	s.nextID++
	id := "g" + strconv.Itoa(s.nextID)

	e := &entry{
		gist: models.Gist{
			ID:          id,
			Description: description,
			HTMLURL:     s.URL + "/gist/" + id,
		},
		content: make(map[string]string, len(files)),
		version: 1,
	}
	for name, content := range files {
		e.content[name] = content
	}

	s.gists[id] = e
	s.order = append(s.order, id)
	return id
}

// etagOf mimics GitHub's weak ETags: opaque and distinct per version.
func etagOf(id string, version int) string {
	return `W/"` + utils.HashHex(fmt.Appendf(nil, "%s-%d", id, version)) + `"`
}

func (s *Server) view(e *entry, withContent bool) models.Gist {
	g := e.gist
	g.Files = make(map[string]models.GistFile, len(e.content))
	for name, content := range e.content {
		f := models.GistFile{
			Filename: name,
			RawURL:   s.URL + "/raw/" + g.ID + "/" + name,
		}
		if withContent {
			f.Content = content
			if s.truncAt > 0 && len(content) > s.truncAt {
				f.Content = content[:s.truncAt]
				f.Truncated = true
			}
		}
		g.Files[name] = f
	}
	return g
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			_, _ = utils.WriteJSON(w, map[string]string{"message": "Bad credentials"}, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage <= 0 {
		perPage = 30
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	s.mu.Lock()
	out := make([]models.Gist, 0, perPage)
	live := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := s.gists[id]; ok {
			live = append(live, id)
		}
	}
	for i := (page - 1) * perPage; i < len(live) && len(out) < perPage; i++ {
		out = append(out, s.view(s.gists[live[i]], false))
	}
	s.mu.Unlock()

	_, _ = utils.WriteJSON(w, out, http.StatusOK)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req models.GistWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Files) == 0 {
		_, _ = utils.WriteJSON(w, map[string]string{"message": "Invalid request"}, http.StatusUnprocessableEntity)
		return
	}

	files := make(map[string]string, len(req.Files))
	for name, f := range req.Files {
		files[name] = f.Content
	}

	s.mu.Lock()
	id := s.insert(req.Description, files)
	e := s.gists[id]
	g := s.view(e, true)
	etag := etagOf(id, e.version)
	s.mu.Unlock()

	w.Header().Set("ETag", etag)
	_, _ = utils.WriteJSON(w, g, http.StatusCreated)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	e, ok := s.gists[id]
	if !ok {
		s.mu.Unlock()
		_, _ = utils.WriteJSON(w, map[string]string{"message": "Not Found"}, http.StatusNotFound)
		return
	}
	etag := etagOf(id, e.version)
	g := s.view(e, true)
	s.mu.Unlock()

	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = utils.WriteJSON(w, g, http.StatusOK)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.GistWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_, _ = utils.WriteJSON(w, map[string]string{"message": "Invalid request"}, http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	e, ok := s.gists[id]
	if !ok {
		s.mu.Unlock()
		_, _ = utils.WriteJSON(w, map[string]string{"message": "Not Found"}, http.StatusNotFound)
		return
	}
	if match := r.Header.Get("If-Match"); match != "" && match != etagOf(id, e.version) {
		s.mu.Unlock()
		_, _ = utils.WriteJSON(w, map[string]string{"message": "Precondition Failed"}, http.StatusPreconditionFailed)
		return
	}

	for name, f := range req.Files {
		e.content[name] = f.Content
	}
	if req.Description != "" {
		e.gist.Description = req.Description
	}
	e.version++
	etag := etagOf(id, e.version)
	g := s.view(e, true)
	s.mu.Unlock()

	w.Header().Set("ETag", etag)
	_, _ = utils.WriteJSON(w, g, http.StatusOK)
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request) {
	id, file := chi.URLParam(r, "id"), chi.URLParam(r, "file")

	s.mu.Lock()
	e, ok := s.gists[id]
	var content string
	if ok {
		content, ok = e.content[file]
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}
