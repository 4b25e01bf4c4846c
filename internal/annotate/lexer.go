package annotate

import (
	"regexp"
	"strings"
)

type lineKind int

const (
	kindBlank lineKind = iota
	kindDirective
	kindComment
	kindDeclaration
	kindCode
)

// declarationPattern matches the opening line of a class or module.
// "class << self" is not a declaration.
var declarationPattern = regexp.MustCompile(`^\s*(?:class|module)\s+[A-Z][A-Za-z0-9_]*(?:::[A-Z][A-Za-z0-9_]*)*`)

// line is one physical line of the input.
type line struct {
	text   string // content without terminator
	eol    string // "\n", "\r\n" or "" on an unterminated last line
	offset int    // byte offset of the first character
	kind   lineKind
}

func (l line) raw() string {
	return l.text + l.eol
}

func (l line) indent() string {
	return l.text[:len(l.text)-len(strings.TrimLeft(l.text, " \t"))]
}

// splitLines splits text into lines, keeping track of terminators so the
// input can be reassembled byte for byte.
func splitLines(text string) []line {
	var lines []line
	offset := 0
	for offset < len(text) {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			lines = append(lines, line{text: text[offset:], offset: offset})
			break
		}
		content := text[offset : offset+idx]
		eol := "\n"
		if strings.HasSuffix(content, "\r") {
			content = content[:len(content)-1]
			eol = "\r\n"
		}
		lines = append(lines, line{text: content, eol: eol, offset: offset})
		offset += idx + 1
	}
	return lines
}

// lex splits text into classified lines. The first n lines are the leading
// directives.
func lex(text string) []line {
	lines := splitLines(text)
	directives := true
	for i := range lines {
		l := &lines[i]
		if directives && isDirective(l.text, i) {
			l.kind = kindDirective
			continue
		}
		directives = false
		l.kind = classify(l.text)
	}
	return lines
}

func classify(s string) lineKind {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return kindBlank
	case strings.HasPrefix(trimmed, "#"):
		return kindComment
	case declarationPattern.MatchString(s):
		return kindDeclaration
	default:
		return kindCode
	}
}

// closesDeclaration reports whether l is the "end" matching a declaration
// opened with the given indentation.
func closesDeclaration(l line, indent string) bool {
	if l.kind != kindCode || l.indent() != indent {
		return false
	}
	rest := strings.TrimSpace(l.text)
	if !strings.HasPrefix(rest, "end") {
		return false
	}
	rest = rest[len("end"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '#' || rest[0] == ';'
}

// isOneLiner reports whether a declaration line also closes itself,
// as in "class Foo < Bar; end".
func isOneLiner(s string) bool {
	trimmed := strings.TrimSpace(s)
	if idx := strings.Index(trimmed, " #"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	return strings.HasSuffix(trimmed, ";end") || strings.HasSuffix(trimmed, "; end")
}
