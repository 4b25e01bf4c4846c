package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// ErrTableExcluded is returned by Provider.Render for tables excluded by configuration.
var ErrTableExcluded = errors.New("table excluded")

// Provider renders annotations from a loaded Snapshot.
// Safe for concurrent use; the snapshot is read-only after construction.
type Provider struct {
	snapshot *Snapshot
	renderer *Renderer
	exclude  map[string]bool
}

// NewProvider creates a Provider. Panics if snapshot or renderer is nil.
func NewProvider(snapshot *Snapshot, renderer *Renderer, excludeTables []string) *Provider {
	if snapshot == nil {
		panic("snapshot cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	exclude := make(map[string]bool, len(excludeTables))
	for _, t := range excludeTables {
		exclude[t] = true
	}
	return &Provider{snapshot: snapshot, renderer: renderer, exclude: exclude}
}

// Render returns the annotation for table. It returns an error wrapping
// pgannotate.ErrTableNotFound for unknown tables and ErrTableExcluded for
// excluded ones.
func (p *Provider) Render(ctx context.Context, table string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.exclude[table] {
		return "", fmt.Errorf("%s: %w", table, ErrTableExcluded)
	}
	t, ok := p.snapshot.Lookup(table)
	if !ok {
		return "", fmt.Errorf("%s in schema %q: %w", table, p.snapshot.Schema, pgannotate.ErrTableNotFound)
	}
	if p.exclude[t.Name] || p.exclude[t.QualifiedName()] {
		return "", fmt.Errorf("%s: %w", table, ErrTableExcluded)
	}
	return p.renderer.Render(t), nil
}

var _ pgannotate.AnnotationProvider = (*Provider)(nil)
