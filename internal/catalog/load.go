package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

// Result is the outcome of one catalog load. A failed load still carries a
// usable (empty) catalog; Diagnostic is the user-facing explanation.
type Result struct {
	Catalog    model.Catalog
	Diagnostic string
	Err        error
}

func (r Result) OK() bool { return r.Err == nil }

// Summary is the one-line status shown above the list surface.
func (r Result) Summary() string {
	if r.Err != nil {
		return r.Diagnostic
	}
	n := len(r.Catalog.Items)
	if n == 1 {
		return "1 exhibit"
	}
	return fmt.Sprintf("%d exhibits", n)
}

// Loader fetches and normalizes catalogs. It never returns an error: failures
// degrade to an empty catalog plus a diagnostic.
type Loader struct {
	Source     Source
	Normalizer Normalizer
	Logger     *slog.Logger
}

func (l Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (l Loader) Load(ctx context.Context) Result {
	log := l.logger()
	if l.Source == nil {
		return failed(ErrNoSource, "catalog")
	}
	doc, err := l.Source.Fetch(ctx)
	if err != nil {
		log.WarnContext(ctx, "catalog load failed", "source", l.Source.String(), "error", err)
		return failed(err, l.Source.String())
	}
	cat := l.Normalizer.Normalize(doc)
	log.InfoContext(ctx, "catalog loaded", "source", l.Source.String(), "raw", len(doc.Items), "items", len(cat.Items))
	return Result{Catalog: cat}
}

// Load is a convenience for Loader{Source: src}.Load.
func Load(ctx context.Context, src Source) Result {
	return Loader{Source: src}.Load(ctx)
}

func failed(err error, where string) Result {
	return Result{
		Catalog:    model.Catalog{Items: []model.Item{}},
		Diagnostic: fmt.Sprintf("Catalog unavailable: %s could not be read or has the wrong format.", where),
		Err:        err,
	}
}
