package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dgallion1/falcondocs/internal/docsource"
)

// handleDocs proxies the upstream document, re-indented.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	body, err := s.source.Raw(r.Context())
	if err != nil {
		if status, ok := docsource.StatusCode(err); ok {
			s.log.Warn("upstream docs request failed", "status", status, "error", err)
			jsonError(w, "Failed to fetch docs", status)
			return
		}
		s.serverError(w, err)
		return
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(body), "", "  "); err != nil {
		s.serverError(w, fmt.Errorf("invalid docs json: %w", err))
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(out.Bytes()))
	w.Header().Set("ETag", etag)
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	out.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("docs proxy failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Server error",
		"details": err.Error(),
	})
}

func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
