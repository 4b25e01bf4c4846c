// Package report renders file changes for dry runs, check --diff and
// interactive confirmation.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

func (o Op) prefix() string {
	switch o {
	case OpInsert:
		return "+"
	case OpDelete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a line-level diff, without its line terminator.
type Line struct {
	Op   Op
	Text string
}

// LineDiff compares before and after line by line.
func LineDiff(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		for _, text := range splitKeepingLast(d.Text) {
			out = append(out, Line{Op: op, Text: strings.TrimRight(text, "\r")})
		}
	}
	return out
}

// splitKeepingLast splits s into lines. A trailing newline does not produce
// an empty final line.
func splitKeepingLast(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Hunks trims runs of unchanged lines down to context lines around each
// change. Omitted runs are replaced by a single nil entry in the result.
func Hunks(lines []Line, context int) []*Line {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var out []*Line
	gap := false
	for i := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, nil)
		}
		gap = false
		out = append(out, &lines[i])
	}
	return out
}

// Styles colours the parts of a rendered diff.
type Styles struct {
	Header  lipgloss.Style
	Insert  lipgloss.Style
	Delete  lipgloss.Style
	Context lipgloss.Style
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Insert:  lipgloss.NewStyle(),
		Delete:  lipgloss.NewStyle(),
		Context: lipgloss.NewStyle(),
	}
}

// Changed reports whether lines contain an insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}
	return false
}

// Render formats the change from before to after as a unified-style
// preview headed by path. It returns "" when nothing changed.
func Render(path, before, after string, context int, styles Styles) string {
	lines := LineDiff(before, after)
	if !Changed(lines) {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(fmt.Sprintf("--- %s", path)))
	b.WriteByte('\n')
	b.WriteString(styles.Header.Render(fmt.Sprintf("+++ %s", path)))
	b.WriteByte('\n')

	for _, l := range Hunks(lines, context) {
		if l == nil {
			b.WriteString(styles.Header.Render("@@"))
			b.WriteByte('\n')
			continue
		}
		style := styles.Context
		switch l.Op {
		case OpInsert:
			style = styles.Insert
		case OpDelete:
			style = styles.Delete
		}
		b.WriteString(style.Render(l.Op.prefix() + l.Text))
		b.WriteByte('\n')
	}
	return b.String()
}
