package annotate

import (
	"errors"
	"strings"
)

// ChangeKind classifies a column between two annotations.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Added
	Removed
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// ColumnChange is the diff entry for one column name. Old is nil for added
// columns and New is nil for removed ones.
type ColumnChange struct {
	Kind ChangeKind
	Name string
	Old  *Column
	New  *Column
}

// DiffResult compares the columns of the current and the new annotation.
type DiffResult struct {
	// Changes lists removed, changed, added, then unchanged columns.
	Changes []ColumnChange

	// Malformed is set when the current annotation had content but no
	// column rows. The current side is then treated as empty.
	Malformed bool
}

// Diff compares the columns of two annotation texts.
func Diff(current, next string) DiffResult {
	var res DiffResult

	cur, err := ParseColumns(current)
	if errors.Is(err, ErrMalformedAnnotation) {
		res.Malformed = true
	}
	nxt, _ := ParseColumns(next)

	for _, name := range cur.names {
		if _, ok := nxt.byName[name]; !ok {
			old := cur.byName[name]
			res.Changes = append(res.Changes, ColumnChange{Kind: Removed, Name: name, Old: &old})
		}
	}

	var added, unchanged []ColumnChange
	for _, name := range nxt.names {
		col := nxt.byName[name]
		old, ok := cur.byName[name]
		switch {
		case !ok:
			added = append(added, ColumnChange{Kind: Added, Name: name, New: &col})
		case !old.Equal(col):
			res.Changes = append(res.Changes, ColumnChange{Kind: Changed, Name: name, Old: &old, New: &col})
		default:
			unchanged = append(unchanged, ColumnChange{Kind: Unchanged, Name: name, Old: &old, New: &col})
		}
	}

	res.Changes = append(res.Changes, added...)
	res.Changes = append(res.Changes, unchanged...)
	return res
}

// Changed reports whether any column was added, removed or changed.
func (d DiffResult) Changed() bool {
	for _, c := range d.Changes {
		if c.Kind != Unchanged {
			return true
		}
	}
	return false
}

func (d DiffResult) filter(kind ChangeKind) []ColumnChange {
	var out []ColumnChange
	for _, c := range d.Changes {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Added returns the columns only present in the new annotation.
func (d DiffResult) Added() []ColumnChange { return d.filter(Added) }

// Removed returns the columns only present in the current annotation.
func (d DiffResult) Removed() []ColumnChange { return d.filter(Removed) }

// Modified returns the columns whose type or modifiers differ.
func (d DiffResult) Modified() []ColumnChange { return d.filter(Changed) }

// Same returns the columns present and equal on both sides.
func (d DiffResult) Same() []ColumnChange { return d.filter(Unchanged) }

// Delta renders the changes as one line per column, removed first:
//
//	- legacy :integer
//	~ email :varchar -> :varchar not null
//	+ name :varchar
//
// Unchanged columns are omitted. An unchanged diff renders as "".
func (d DiffResult) Delta() string {
	var sb strings.Builder
	for _, c := range d.Changes {
		switch c.Kind {
		case Removed:
			sb.WriteString("- " + c.Name + " " + c.Old.String() + "\n")
		case Changed:
			sb.WriteString("~ " + c.Name + " " + c.Old.String() + " -> " + c.New.String() + "\n")
		case Added:
			sb.WriteString("+ " + c.Name + " " + c.New.String() + "\n")
		}
	}
	return sb.String()
}
