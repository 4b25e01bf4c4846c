package annotate

import (
	"fmt"
	"strings"
)

// Reason explains the outcome of a rewrite.
type Reason string

const (
	ReasonUnchanged Reason = "unchanged"
	ReasonInserted  Reason = "inserted"
	ReasonReplaced  Reason = "replaced"
	ReasonRemoved   Reason = "removed"
	ReasonMoved     Reason = "moved"
	ReasonSkipped   Reason = "skipped"
	ReasonNoTarget  Reason = "no target"
)

// Outcome is the result of Rewrite.
type Outcome struct {
	// Changed is true when Text differs from the input.
	Changed bool

	// Text is the new file content. It equals the input when Changed is false.
	Text string

	// Diff compares the columns of the previous and the new annotation.
	Diff DiffResult

	Reason Reason

	// Malformed is set when the existing annotation had no column rows.
	Malformed bool
}

// Rewrite synchronizes the annotation in text with rendered. An empty
// rendered annotation removes the existing block. Rewrite is idempotent:
// rewriting its own output with the same arguments changes nothing.
//
// The only error is an invalid configuration.
func Rewrite(text, rendered string, cfg PlacementConfig) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("rewrite: %w", err)
	}

	unchanged := func(reason Reason) Outcome {
		return Outcome{Text: text, Reason: reason}
	}

	if cfg.SkipMarker != "" && strings.Contains(text, cfg.SkipMarker) {
		return unchanged(ReasonSkipped), nil
	}

	annotation := normalizeAnnotation(rendered, cfg.heading())
	l := scan(text)
	block := l.locate(cfg)

	if block == nil && annotation == "" {
		return unchanged(ReasonUnchanged), nil
	}
	if l.decl < 0 {
		return unchanged(ReasonNoTarget), nil
	}

	current := ""
	if block != nil {
		current = block.Raw
	}
	diff := Diff(current, annotation)
	lines := cfg.blockLines(annotation)

	var (
		out    string
		reason Reason
	)
	switch {
	case block == nil:
		var ok bool
		out, ok = insert(l, lines, cfg.Position)
		if !ok {
			return unchanged(ReasonNoTarget), nil
		}
		reason = ReasonInserted

	case annotation == "":
		out, reason = remove(l, block), ReasonRemoved

	case block.Position != cfg.Position:
		var ok bool
		out, ok = insert(scan(remove(l, block)), lines, cfg.Position)
		if !ok {
			return unchanged(ReasonNoTarget), nil
		}
		reason = ReasonMoved

	case stale(block, lines, diff, cfg):
		out = text[:block.Start] + render(lines, l.eol) + text[block.End:]
		reason = ReasonReplaced

	default:
		out, reason = text, ReasonUnchanged
	}

	if out == text {
		reason = ReasonUnchanged
	}
	return Outcome{
		Changed:   out != text,
		Text:      out,
		Diff:      diff,
		Reason:    reason,
		Malformed: diff.Malformed,
	}, nil
}

// stale decides whether an existing block at the right position must be
// rewritten. Column rows are compared structurally so alignment changes
// alone do not count. Every other line is compared with whitespace
// collapsed.
func stale(block *Block, want []string, diff DiffResult, cfg PlacementConfig) bool {
	if diff.Changed() || diff.Malformed {
		return true
	}
	have := strings.Split(strings.TrimRight(strings.ReplaceAll(block.Raw, "\r\n", "\n"), "\n"), "\n")
	if cfg.Force {
		return !equalTrimmed(have, want)
	}
	return !equalStrings(structuralLines(have), structuralLines(want))
}

// structuralLines returns the non-column lines with whitespace collapsed.
func structuralLines(lines []string) []string {
	var out []string
	for _, s := range lines {
		if _, ok := parseColumnRow(strings.TrimSpace(s)); ok {
			continue
		}
		out = append(out, strings.Join(strings.Fields(s), " "))
	}
	return out
}

func equalTrimmed(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimRight(a[i], " \t") != strings.TrimRight(b[i], " \t") {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// normalizeAnnotation trims blank edges and trailing whitespace, turns
// stray non-comment lines into comments, indents free-form lines the
// locator would not recognize and makes sure the heading is the first
// line. Whitespace-only input normalizes to "".
func normalizeAnnotation(rendered, heading string) string {
	raw := strings.Split(strings.ReplaceAll(rendered, "\r\n", "\n"), "\n")

	var lines []string
	for _, s := range raw {
		s = strings.TrimRight(s, " \t")
		switch {
		case strings.TrimSpace(s) == "":
			s = "#"
		case !strings.HasPrefix(strings.TrimSpace(s), "#"):
			s = "# " + s
		}
		lines = append(lines, s)
	}

	start, end := 0, len(lines)
	for start < end && isBlankRendered(raw[start]) {
		start++
	}
	for end > start && isBlankRendered(raw[end-1]) {
		end--
	}
	if start == end {
		return ""
	}
	lines = lines[start:end]

	if !strings.HasPrefix(commentBody(lines[0]), commentBody(heading)) {
		if commentBody(lines[0]) != "" {
			lines = append([]string{"#"}, lines...)
		}
		lines = append([]string{heading}, lines...)
	}

	// Every line after the heading must keep the block open when it is
	// located again, so free-form lines are indented like rows.
	for i := 1; i < len(lines); i++ {
		if !isAnnotationShaped(lines[i]) {
			lines[i] = "#  " + commentBody(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

func isBlankRendered(s string) bool {
	return strings.TrimSpace(s) == ""
}

// blockLines returns the lines written for an annotation, wrappers included.
func (c PlacementConfig) blockLines(annotation string) []string {
	if annotation == "" {
		return nil
	}
	var lines []string
	if c.WrapperOpen != "" {
		lines = append(lines, wrapperLine(c.WrapperOpen))
	}
	lines = append(lines, strings.Split(annotation, "\n")...)
	if c.WrapperClose != "" {
		lines = append(lines, wrapperLine(c.WrapperClose))
	}
	return lines
}

func render(lines []string, eol string) string {
	return strings.Join(lines, eol) + eol
}

// insert places a new block at pos. It reports false when the file has no
// anchor for pos.
func insert(l layout, block []string, pos Position) (string, bool) {
	if l.decl < 0 {
		return "", false
	}
	if pos == PositionAfter {
		if l.closing < 0 {
			return "", false
		}
		return insertAfter(l, block), true
	}
	return insertBefore(l, block), true
}

// insertBefore puts the block above the comments and blank lines that
// precede the declaration, below any directives or code. Exactly one
// blank line separates it from the content above.
func insertBefore(l layout, block []string) string {
	i := l.decl
	for i > l.dirEnd && (l.lines[i-1].kind == kindComment || l.lines[i-1].kind == kindBlank) {
		i--
	}
	for i < l.decl && l.lines[i].kind == kindBlank {
		i++
	}

	p := i - 1
	for p >= 0 && l.lines[p].kind == kindBlank {
		p--
	}

	var sb strings.Builder
	if p >= 0 {
		sb.WriteString(join(l.lines[:p+1]))
		sb.WriteString(l.eol)
	}
	sb.WriteString(render(block, l.eol))
	sb.WriteString(join(l.lines[i:]))
	return sb.String()
}

// insertAfter puts the block one blank line below the closing line of the
// declaration. Trailing blank lines at the end of the file are dropped.
func insertAfter(l layout, block []string) string {
	c := l.closing
	closing := l.lines[c]

	var sb strings.Builder
	sb.WriteString(join(l.lines[:c]))
	sb.WriteString(closing.text)
	if closing.eol != "" {
		sb.WriteString(closing.eol)
	} else {
		sb.WriteString(l.eol)
	}
	sb.WriteString(l.eol)
	sb.WriteString(render(block, l.eol))

	rest := c + 1 + l.blanksBelow(c+1)
	if rest < len(l.lines) {
		sb.WriteString(l.eol)
		sb.WriteString(join(l.lines[rest:]))
	}
	return sb.String()
}

// remove deletes the block and its surrounding blank lines. Between two
// regions of content the larger of the two blank runs is kept; at either
// end of the file none is.
func remove(l layout, b *Block) string {
	lead := l.blanksAbove(b.StartLine)
	trail := l.blanksBelow(b.EndLine)

	above := l.lines[:b.StartLine-lead]
	below := l.lines[b.EndLine+trail:]

	var sb strings.Builder
	sb.WriteString(join(above))
	if len(above) > 0 && len(below) > 0 {
		if lead >= trail {
			sb.WriteString(join(l.lines[b.StartLine-lead : b.StartLine]))
		} else {
			sb.WriteString(join(l.lines[b.EndLine : b.EndLine+trail]))
		}
	}
	sb.WriteString(join(below))
	return sb.String()
}
