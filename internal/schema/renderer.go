package schema

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	defaultHeading = "# == Schema Information"
	typeWidth      = 16
)

// RenderOptions selects the optional annotation sections.
type RenderOptions struct {
	Heading          string
	Indexes          bool
	ForeignKeys      bool
	CheckConstraints bool
	TableComment     bool
}

// DefaultRenderOptions enables every section.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Heading:          defaultHeading,
		Indexes:          true,
		ForeignKeys:      true,
		CheckConstraints: true,
		TableComment:     true,
	}
}

// Renderer formats tables as annotation comment blocks:
//
//	# == Schema Information
//	#
//	# Table name: users
//	#
//	#  id     :bigint           not null, primary key
//	#  email  :varchar(255)     not null
//	#
//	# Indexes
//	#
//	#  index_users_on_email  (email) UNIQUE
//	#
type Renderer struct {
	opts RenderOptions
}

// NewRenderer creates a Renderer.
func NewRenderer(opts RenderOptions) *Renderer {
	if strings.TrimSpace(opts.Heading) == "" {
		opts.Heading = defaultHeading
	}
	return &Renderer{opts: opts}
}

// Render returns the annotation for t, ending with a newline.
func (r *Renderer) Render(t *Table) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(strings.TrimRight(s, " "))
		b.WriteByte('\n')
	}

	line(strings.TrimSpace(r.opts.Heading))
	line("#")
	line("# Table name: " + t.QualifiedName())
	if r.opts.TableComment && t.Comment != "" {
		line("# Table comment: " + singleLine(t.Comment))
	}
	line("#")

	width := 0
	for _, c := range t.Columns {
		width = max(width, len(c.Name))
	}
	for _, c := range t.Columns {
		line(fmt.Sprintf("#  %-*s :%-*s %s", width, c.Name, typeWidth, TypeAlias(c.Type), strings.Join(columnModifiers(c), ", ")))
	}
	line("#")

	if r.opts.Indexes && len(t.Indexes) > 0 {
		section(line, "Indexes", indexRows(t.Indexes))
	}
	if r.opts.ForeignKeys && len(t.ForeignKeys) > 0 {
		section(line, "Foreign Keys", foreignKeyRows(t.ForeignKeys))
	}
	if r.opts.CheckConstraints && len(t.CheckConstraints) > 0 {
		section(line, "Check Constraints", checkRows(t.CheckConstraints))
	}
	return b.String()
}

func section(line func(string), title string, rows [][2]string) {
	line("# " + title)
	line("#")
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		line(fmt.Sprintf("#  %-*s  %s", width, r[0], r[1]))
	}
	line("#")
}

func columnModifiers(c Column) []string {
	var mods []string
	if d := displayDefault(c.Default); d != "" {
		mods = append(mods, "default("+d+")")
	}
	if c.NotNull {
		mods = append(mods, "not null")
	}
	if c.PrimaryKey {
		mods = append(mods, "primary key")
	}
	return mods
}

var literalCast = regexp.MustCompile(`^('(?:[^']|'')*')::[\w\s."\[\]()]+$`)

// displayDefault shortens a default expression. Sequence defaults are
// implied by the primary key and omitted.
func displayDefault(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.HasPrefix(expr, "nextval(") {
		return ""
	}
	if m := literalCast.FindStringSubmatch(expr); m != nil {
		return m[1]
	}
	return singleLine(expr)
}

func indexRows(indexes []Index) [][2]string {
	rows := make([][2]string, 0, len(indexes))
	for _, idx := range indexes {
		desc := "(" + strings.Join(idx.Columns, ", ") + ")"
		if idx.Unique {
			desc += " UNIQUE"
		}
		if idx.Where != "" {
			desc += " WHERE " + singleLine(idx.Where)
		}
		if idx.Method != "" && idx.Method != "btree" {
			desc += " USING " + idx.Method
		}
		rows = append(rows, [2]string{idx.Name, desc})
	}
	return rows
}

func foreignKeyRows(fks []ForeignKey) [][2]string {
	rows := make([][2]string, 0, len(fks))
	for _, fk := range fks {
		refs := make([]string, len(fk.RefColumns))
		for i, c := range fk.RefColumns {
			refs[i] = fk.RefTable + "." + c
		}
		desc := "(" + strings.Join(fk.Columns, ", ") + " => " + strings.Join(refs, ", ") + ")"
		if fk.OnDelete != "" {
			desc += " ON DELETE => " + fk.OnDelete
		}
		if fk.OnUpdate != "" {
			desc += " ON UPDATE => " + fk.OnUpdate
		}
		rows = append(rows, [2]string{fk.Name, desc})
	}
	return rows
}

func checkRows(checks []CheckConstraint) [][2]string {
	rows := make([][2]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, [2]string{c.Name, singleLine(c.Expression)})
	}
	return rows
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// typeAliases shortens PostgreSQL type names to single tokens so that every
// annotation row parses back as "name :type modifiers".
var typeAliases = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`^character varying`), "varchar"},
	{regexp.MustCompile(`^bit varying`), "varbit"},
	{regexp.MustCompile(`^character\b`), "char"},
	{regexp.MustCompile(`^double precision`), "float8"},
	{regexp.MustCompile(`^timestamp(\(\d+\))? with time zone`), "timestamptz$1"},
	{regexp.MustCompile(`^timestamp(\(\d+\))? without time zone`), "timestamp$1"},
	{regexp.MustCompile(`^time(\(\d+\))? with time zone`), "timetz$1"},
	{regexp.MustCompile(`^time(\(\d+\))? without time zone`), "time$1"},
}

// TypeAlias returns the annotation spelling of a format_type() result.
func TypeAlias(pgType string) string {
	t := strings.TrimSpace(pgType)
	for _, a := range typeAliases {
		if a.pattern.MatchString(t) {
			t = a.pattern.ReplaceAllString(t, a.repl)
			break
		}
	}
	return strings.ReplaceAll(t, ", ", ",")
}
