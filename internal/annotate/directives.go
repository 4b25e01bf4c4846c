package annotate

import (
	"regexp"
	"strings"
)

// directivePattern matches Ruby magic comments in both the plain and the
// emacs "-*- key: value -*-" forms.
var directivePattern = regexp.MustCompile(
	`(?i)^#\s*(?:-\*-\s*)?(encoding|coding|frozen_string_literal|typed|warn_indent|shareable_constant_value|warn_past_scope)\s*:\s*\S`)

// Directives are the magic comment lines at the very top of a file.
type Directives struct {
	// Lines holds each directive line without its line terminator.
	Lines []string

	// Length is the number of bytes the directives occupy, terminators
	// included. text[Length:] is the remainder of the file.
	Length int
}

// Empty reports whether the file starts without directives.
func (d Directives) Empty() bool {
	return len(d.Lines) == 0
}

// ExtractDirectives scans text from the first line and collects directive
// lines until the first blank or non-directive line. Directives further
// down the file are ordinary comments.
func ExtractDirectives(text string) Directives {
	var d Directives
	for i, l := range splitLines(text) {
		if !isDirective(l.text, i) {
			break
		}
		d.Lines = append(d.Lines, l.text)
		d.Length = l.offset + len(l.raw())
	}
	return d
}

func isDirective(s string, index int) bool {
	if index == 0 && strings.HasPrefix(s, "#!") {
		return true
	}
	return directivePattern.MatchString(s)
}
