package annotate

import "strings"

// Block is an annotation block found in a file.
type Block struct {
	// Start and End are byte offsets of the block, End exclusive.
	Start, End int

	// StartLine and EndLine are line indexes of the block, EndLine exclusive.
	StartLine, EndLine int

	// Leading and Trailing hold the blank lines directly above and below
	// the block, verbatim.
	Leading, Trailing string

	// Raw is the block text, line terminators included.
	Raw string

	// Position records where the block was found, which may differ from the
	// configured position.
	Position Position

	// Wrapped is true when the block includes a wrapper marker line.
	Wrapped bool
}

// sectionHeaders are the annotation lines that carry a single space after
// the comment marker.
var sectionHeaders = []string{
	"Table name:",
	"Table comment:",
	"Indexes",
	"Foreign Keys",
	"Check Constraints",
}

// layout is the line-level structure of a file.
type layout struct {
	lines   []line
	dirEnd  int    // index of the first line after the leading directives
	decl    int    // first declaration line, -1 when absent
	closing int    // line closing decl, -1 when absent
	eol     string // terminator used for synthesized lines
}

func scan(text string) layout {
	l := layout{lines: lex(text), decl: -1, closing: -1, eol: "\n"}

	for l.dirEnd < len(l.lines) && l.lines[l.dirEnd].kind == kindDirective {
		l.dirEnd++
	}

	for _, ln := range l.lines {
		if ln.eol != "" {
			l.eol = ln.eol
			break
		}
	}

	for i := l.dirEnd; i < len(l.lines); i++ {
		if l.lines[i].kind == kindDeclaration {
			l.decl = i
			break
		}
	}

	if l.decl >= 0 {
		l.closing = l.closingLine(l.decl)
	}
	return l
}

func (l layout) closingLine(decl int) int {
	if isOneLiner(l.lines[decl].text) {
		return decl
	}
	indent := l.lines[decl].indent()
	for i := decl + 1; i < len(l.lines); i++ {
		if closesDeclaration(l.lines[i], indent) {
			return i
		}
	}
	return -1
}

// region returns the line range searched for a block at pos.
func (l layout) region(pos Position) (from, to int, ok bool) {
	switch pos {
	case PositionBefore:
		if l.decl < 0 {
			return l.dirEnd, len(l.lines), true
		}
		return l.dirEnd, l.decl, true
	case PositionAfter:
		if l.closing < 0 {
			return 0, 0, false
		}
		return l.closing + 1, len(l.lines), true
	}
	return 0, 0, false
}

// Locate finds the annotation block in text. It searches the configured
// position first and then the opposite one. It returns nil when the file
// has no block.
func Locate(text string, cfg PlacementConfig) *Block {
	return scan(text).locate(cfg)
}

func (l layout) locate(cfg PlacementConfig) *Block {
	if b := l.find(cfg.Position, cfg); b != nil {
		return b
	}
	return l.find(opposite(cfg.Position), cfg)
}

func opposite(pos Position) Position {
	if pos == PositionAfter {
		return PositionBefore
	}
	return PositionAfter
}

func (l layout) find(pos Position, cfg PlacementConfig) *Block {
	from, to, ok := l.region(pos)
	if !ok {
		return nil
	}

	for i := from; i < to; i++ {
		if l.lines[i].kind != kindComment {
			continue
		}

		head, opened := i, false
		if cfg.WrapperOpen != "" && isMarker(l.lines[i], cfg.WrapperOpen) && i+1 < to && isHeading(l.lines[i+1], cfg) {
			head, opened = i+1, true
		} else if !isHeading(l.lines[i], cfg) {
			continue
		}

		end, closed := l.extent(head, to, opened, cfg)
		return l.block(i, end, pos, opened || closed)
	}
	return nil
}

// extent returns the exclusive end line of a block whose heading is at head.
func (l layout) extent(head, to int, opened bool, cfg PlacementConfig) (int, bool) {
	j := head + 1
	for ; j < to; j++ {
		ln := l.lines[j]
		if ln.kind != kindComment {
			break
		}
		if cfg.WrapperClose != "" && isMarker(ln, cfg.WrapperClose) {
			return j + 1, true
		}
		if !isAnnotationShaped(ln.text) {
			break
		}
	}

	if opened && cfg.WrapperClose != "" {
		for k := j; k < to && l.lines[k].kind == kindComment; k++ {
			if isMarker(l.lines[k], cfg.WrapperClose) {
				return k + 1, true
			}
		}
	}
	return j, false
}

func (l layout) block(start, end int, pos Position, wrapped bool) *Block {
	b := &Block{
		StartLine: start,
		EndLine:   end,
		Start:     l.lines[start].offset,
		Position:  pos,
		Wrapped:   wrapped,
	}
	last := l.lines[end-1]
	b.End = last.offset + len(last.raw())

	b.Raw = join(l.lines[start:end])
	b.Leading = join(l.lines[start-l.blanksAbove(start) : start])
	b.Trailing = join(l.lines[end : end+l.blanksBelow(end)])
	return b
}

// blanksAbove counts the blank lines directly above line i.
func (l layout) blanksAbove(i int) int {
	n := 0
	for i-n-1 >= 0 && l.lines[i-n-1].kind == kindBlank {
		n++
	}
	return n
}

// blanksBelow counts the blank lines starting at line i.
func (l layout) blanksBelow(i int) int {
	n := 0
	for i+n < len(l.lines) && l.lines[i+n].kind == kindBlank {
		n++
	}
	return n
}

func isHeading(ln line, cfg PlacementConfig) bool {
	return ln.kind == kindComment && strings.HasPrefix(commentBody(ln.text), commentBody(cfg.heading()))
}

func isMarker(ln line, marker string) bool {
	return ln.kind == kindComment && commentBody(ln.text) == commentBody(wrapperLine(marker))
}

// isAnnotationShaped reports whether a comment line can belong to a
// generated block: a bare "#", "#" followed by at least two spaces, or a
// known section header.
func isAnnotationShaped(s string) bool {
	t := strings.TrimSpace(s)
	if t == "#" || strings.HasPrefix(t, "#  ") || strings.HasPrefix(t, "#\t") {
		return true
	}
	body := commentBody(t)
	for _, h := range sectionHeaders {
		if strings.HasPrefix(body, h) {
			return true
		}
	}
	return false
}

// PureText returns text without its leading directives and without the
// annotation block. The blank lines around the block are kept.
func PureText(text string, cfg PlacementConfig) string {
	l := scan(text)
	start := 0
	if l.dirEnd > 0 {
		last := l.lines[l.dirEnd-1]
		start = last.offset + len(last.raw())
	}

	b := l.locate(cfg)
	if b == nil {
		return text[start:]
	}
	return text[start:b.Start] + text[b.End:]
}

// join reassembles lines verbatim.
func join(lines []line) string {
	var sb strings.Builder
	for _, ln := range lines {
		sb.WriteString(ln.raw())
	}
	return sb.String()
}
