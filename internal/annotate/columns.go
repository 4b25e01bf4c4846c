package annotate

import (
	"errors"
	"strings"
)

// ErrMalformedAnnotation is returned by ParseColumns when an annotation has
// content but no recognizable column rows.
var ErrMalformedAnnotation = errors.New("malformed annotation content")

// Modifier is one column attribute such as "not null" or "default(0)".
type Modifier struct {
	Name  string
	Value string
}

// String renders the modifier the way it appears in an annotation row.
func (m Modifier) String() string {
	switch {
	case m.Name == "null" && m.Value == "false":
		return "not null"
	case m.Value == "true":
		return m.Name
	default:
		return m.Name + "(" + m.Value + ")"
	}
}

// Column is a parsed annotation row: "#  name :type modifiers".
type Column struct {
	Name      string
	Type      string
	Modifiers []Modifier
}

// String renders the column without its name.
func (c Column) String() string {
	if len(c.Modifiers) == 0 {
		return ":" + c.Type
	}
	mods := make([]string, len(c.Modifiers))
	for i, m := range c.Modifiers {
		mods[i] = m.String()
	}
	return ":" + c.Type + " " + strings.Join(mods, ", ")
}

// Equal compares type and modifiers. Modifier order is ignored.
func (c Column) Equal(other Column) bool {
	if c.Type != other.Type || len(c.Modifiers) != len(other.Modifiers) {
		return false
	}
	seen := make(map[Modifier]int, len(c.Modifiers))
	for _, m := range c.Modifiers {
		seen[m]++
	}
	for _, m := range other.Modifiers {
		if seen[m] == 0 {
			return false
		}
		seen[m]--
	}
	return true
}

// Columns is an insertion-ordered set of columns keyed by name.
type Columns struct {
	names  []string
	byName map[string]Column
}

// Len returns the number of columns.
func (c Columns) Len() int {
	return len(c.names)
}

// Names returns column names in annotation order.
func (c Columns) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the column called name.
func (c Columns) Get(name string) (Column, bool) {
	col, ok := c.byName[name]
	return col, ok
}

// add keeps the first occurrence of a name.
func (c *Columns) add(col Column) {
	if c.byName == nil {
		c.byName = make(map[string]Column)
	}
	if _, dup := c.byName[col.Name]; dup {
		return
	}
	c.names = append(c.names, col.Name)
	c.byName[col.Name] = col
}

// ParseColumns extracts the column rows of an annotation. Parsing stops at
// the first section that does not list columns (Indexes, Foreign Keys,
// Check Constraints). Empty input yields no columns and no error; input
// with content but without any row yields ErrMalformedAnnotation.
func ParseColumns(text string) (Columns, error) {
	var cols Columns
	content := false

	for _, ln := range splitLines(text) {
		t := strings.TrimSpace(ln.text)
		if t == "" {
			continue
		}
		content = true

		body := commentBody(t)
		if isListingSection(body) {
			break
		}
		if col, ok := parseColumnRow(t); ok {
			cols.add(col)
		}
	}

	if content && cols.Len() == 0 {
		return Columns{}, ErrMalformedAnnotation
	}
	return cols, nil
}

// listingSections follow the column rows and list other objects.
var listingSections = []string{"Indexes", "Foreign Keys", "Check Constraints"}

func isListingSection(body string) bool {
	for _, h := range listingSections {
		if strings.HasPrefix(body, h) {
			return true
		}
	}
	return false
}

// parseColumnRow parses "#  name :type modifiers".
func parseColumnRow(s string) (Column, bool) {
	if !strings.HasPrefix(s, "#") {
		return Column{}, false
	}
	rest := strings.TrimSpace(s[1:])

	idx := strings.IndexAny(rest, " \t")
	if idx <= 0 {
		return Column{}, false
	}
	name := rest[:idx]
	rest = strings.TrimSpace(rest[idx:])
	if !strings.HasPrefix(rest, ":") || strings.HasSuffix(name, ":") {
		return Column{}, false
	}
	rest = rest[1:]

	typ, mods := splitType(rest)
	if typ == "" {
		return Column{}, false
	}
	return Column{Name: name, Type: typ, Modifiers: parseModifiers(mods)}, true
}

// splitType cuts the type token off a row. Whitespace inside parentheses
// belongs to the type, as in "decimal(10, 2)".
func splitType(s string) (string, string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				return s[:i], strings.TrimSpace(s[i:])
			}
		}
	}
	return s, ""
}

func parseModifiers(s string) []Modifier {
	var mods []Modifier
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mods = append(mods, parseModifier(part))
	}
	return mods
}

func parseModifier(s string) Modifier {
	lower := strings.ToLower(s)
	switch lower {
	case "not null":
		return Modifier{Name: "null", Value: "false"}
	case "null":
		return Modifier{Name: "null", Value: "true"}
	}

	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		return Modifier{Name: strings.TrimSpace(s[:open]), Value: s[open+1 : len(s)-1]}
	}
	return Modifier{Name: s, Value: "true"}
}

// splitTopLevel splits on commas outside parentheses and quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
