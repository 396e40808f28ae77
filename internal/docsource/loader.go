package docsource

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/falcondocs/internal/doctree"
)

// Fetcher retrieves the documentation document.
type Fetcher interface {
	Fetch(ctx context.Context) (doctree.Document, error)
}

// Loader turns fetch failures into an empty document so page rendering never
// sees an error.
type Loader struct {
	source Fetcher
	log    *slog.Logger
}

func NewLoader(source Fetcher, log *slog.Logger) *Loader {
	return &Loader{source: source, log: log}
}

// Load fetches the document once. It reports false, after logging the cause,
// when the fetch failed and the returned document is the empty fallback.
func (l *Loader) Load(ctx context.Context) (doctree.Document, bool) {
	begin := time.Now()

	doc, err := l.source.Fetch(ctx)
	if err != nil {
		l.log.Error("failed to fetch docs",
			"error", err,
			"duration", time.Since(begin),
		)
		return doctree.Document{}, false
	}

	l.log.Info("fetched docs",
		"types", len(doc.Types),
		"functions", len(doc.Functions),
		"duration", time.Since(begin),
	)
	return doc, true
}
