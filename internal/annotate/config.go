package annotate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// Position places the annotation relative to the first type declaration.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
)

const (
	// DefaultHeading is the first line of every annotation block.
	DefaultHeading = "# == Schema Information"

	// DefaultSkipMarker opts a file out of annotation entirely.
	DefaultSkipMarker = "# -*- SkipSchemaAnnotations"
)

// ParsePosition converts user input into a Position.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(s))) {
	case PositionBefore, "top":
		return PositionBefore, nil
	case PositionAfter, "bottom":
		return PositionAfter, nil
	}
	return "", fmt.Errorf("unrecognized position %q (want before or after): %w", s, pgannotate.ErrInvalidConfig)
}

// PlacementConfig controls where and how the annotation is written.
// A PlacementConfig is immutable for the duration of a run.
type PlacementConfig struct {
	// Position of the block relative to the first class/module declaration.
	Position Position

	// WrapperOpen and WrapperClose, when set, are written as comment lines
	// framing the block. A leading "#" is added when missing.
	WrapperOpen  string
	WrapperClose string

	// SkipMarker disables annotation for any file containing it.
	// Empty disables the check.
	SkipMarker string

	// Heading identifies the block. Defaults to DefaultHeading.
	Heading string

	// Force rewrites the block even when its columns are unchanged.
	Force bool
}

// DefaultPlacementConfig returns the configuration used when nothing is set.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{
		Position:   PositionBefore,
		SkipMarker: DefaultSkipMarker,
		Heading:    DefaultHeading,
	}
}

// Validate reports configuration errors. All errors wrap pgannotate.ErrInvalidConfig.
func (c PlacementConfig) Validate() error {
	var errs []error

	if c.Position != PositionBefore && c.Position != PositionAfter {
		errs = append(errs, fmt.Errorf("position must be %q or %q, got %q: %w",
			PositionBefore, PositionAfter, c.Position, pgannotate.ErrInvalidConfig))
	}

	if strings.ContainsAny(c.WrapperOpen, "\r\n") || strings.ContainsAny(c.WrapperClose, "\r\n") {
		errs = append(errs, fmt.Errorf("wrapper markers must be single-line: %w", pgannotate.ErrInvalidConfig))
	}

	if strings.ContainsAny(c.Heading, "\r\n") {
		errs = append(errs, fmt.Errorf("heading must be single-line: %w", pgannotate.ErrInvalidConfig))
	} else if c.Heading != "" && !strings.HasPrefix(strings.TrimSpace(c.Heading), "#") {
		errs = append(errs, fmt.Errorf("heading must be a comment line starting with '#': %w", pgannotate.ErrInvalidConfig))
	}

	if c.WrapperOpen != "" && commentBody(wrapperLine(c.WrapperOpen)) == commentBody(c.heading()) {
		errs = append(errs, fmt.Errorf("wrapper_open must differ from the heading: %w", pgannotate.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

func (c PlacementConfig) heading() string {
	if strings.TrimSpace(c.Heading) == "" {
		return DefaultHeading
	}
	return strings.TrimSpace(c.Heading)
}

func (c PlacementConfig) wrapped() bool {
	return c.WrapperOpen != "" || c.WrapperClose != ""
}

// wrapperLine turns a marker into the comment line written to the file.
func wrapperLine(marker string) string {
	marker = strings.TrimSpace(marker)
	if strings.HasPrefix(marker, "#") {
		return marker
	}
	return "# " + marker
}

// commentBody returns the text of a comment line after its '#', trimmed.
func commentBody(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimPrefix(s, "#"))
}
