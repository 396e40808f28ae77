package api

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"github.com/dgallion1/falcondocs/internal/doctree"
	"github.com/dgallion1/falcondocs/internal/render"
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.pages.Landing)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.pages.Guide)
}

// handleReference serves the loading shell. The open units requested in the
// query are handed on to the fragment.
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	src := "/reference/content"
	if open := render.ParseExpandState(r.URL.Query().Get("open")); open.Len() > 0 {
		src += "?" + url.Values{"open": {open.Encode()}}.Encode()
	}

	s.renderPage(w, r, http.StatusOK, func(w io.Writer) error {
		return s.pages.ReferenceShell(w, src)
	})
}

// handleReferenceContent loads the document once and renders the grouped
// reference. A failed load renders the same empty sections as an empty one.
func (s *Server) handleReferenceContent(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loader.Load(r.Context())
	state := render.StateLoading.Resolve(ok)
	tree := doctree.GroupDocument(doc)
	open := render.ParseExpandState(r.URL.Query().Get("open"))

	s.renderPage(w, r, http.StatusOK, func(w io.Writer) error {
		return s.pages.Reference(w, tree, state, open)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, s.pages.NotFound)
}

// renderPage buffers the page so a template failure never leaves a partial
// response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page func(io.Writer) error) {
	var buf bytes.Buffer
	if err := page(&buf); err != nil {
		s.log.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
