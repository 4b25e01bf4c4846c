package schema

import "strings"

// Column is a table column as read from the catalog.
type Column struct {
	Name       string
	Type       string // format_type() output, e.g. "character varying(255)"
	NotNull    bool
	Default    string // default expression, "" when none
	PrimaryKey bool
	Comment    string
}

// Index is a non-primary-key index.
type Index struct {
	Name    string
	Columns []string // column names or expressions, in key order
	Unique  bool
	Method  string // access method, e.g. "btree"
	Where   string // partial index predicate
}

// ForeignKey is a foreign key constraint.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string // "cascade", "set null", ... empty for NO ACTION
	OnUpdate   string
}

// CheckConstraint is a CHECK constraint.
type CheckConstraint struct {
	Name       string
	Expression string
}

// Table is the metadata needed to render one annotation.
type Table struct {
	Schema           string
	Name             string
	Comment          string
	Columns          []Column
	Indexes          []Index
	ForeignKeys      []ForeignKey
	CheckConstraints []CheckConstraint
}

// QualifiedName returns "name" for public tables and "schema.name" otherwise.
func (t *Table) QualifiedName() string {
	if t.Schema == "" || t.Schema == "public" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Snapshot holds every base table of one schema.
type Snapshot struct {
	Schema string
	Tables map[string]*Table
}

// NewSnapshot creates an empty snapshot for schema.
func NewSnapshot(schemaName string) *Snapshot {
	return &Snapshot{Schema: schemaName, Tables: make(map[string]*Table)}
}

// Add inserts or replaces a table.
func (s *Snapshot) Add(t *Table) {
	s.Tables[t.Name] = t
}

// Lookup finds a table by plain or schema-qualified name. A qualified name
// for another schema is not found.
func (s *Snapshot) Lookup(name string) (*Table, bool) {
	if schemaName, table, ok := strings.Cut(name, "."); ok {
		if schemaName != s.Schema {
			return nil, false
		}
		name = table
	}
	t, ok := s.Tables[name]
	return t, ok
}

func (s *Snapshot) table(name string) *Table {
	t, ok := s.Tables[name]
	if !ok {
		t = &Table{Schema: s.Schema, Name: name}
		s.Tables[name] = t
	}
	return t
}
