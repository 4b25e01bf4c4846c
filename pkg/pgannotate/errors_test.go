package pgannotate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgannotate.ExitSuccess},
		{"unknown flag", errors.New("unknown flag --foo"), pgannotate.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), pgannotate.ExitUsageError},
		{"unknown command", errors.New(`unknown command "anotate" for "pgannotate"`), pgannotate.ExitUsageError},
		{"invalid argument", errors.New(`invalid argument "abc" for "--port"`), pgannotate.ExitUsageError},
		{"general error", errors.New("something went wrong"), pgannotate.ExitGeneralError},
		{"stale", fmt.Errorf("2 file(s): %w", pgannotate.ErrStaleAnnotations), pgannotate.ExitStaleAnnotations},
		{"invalid config", fmt.Errorf("bad position: %w", pgannotate.ErrInvalidConfig), pgannotate.ExitConfigError},
		{"unsupported auth", pgannotate.ErrUnsupportedAuthMethod, pgannotate.ExitConfigError},
		{"connection failed", fmt.Errorf("%w to db:5432: %w", pgannotate.ErrConnectionFailed, errors.New("refused")), pgannotate.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), pgannotate.ExitConnectionError},
		{"file conflict", fmt.Errorf("user.rb: %w", pgannotate.ErrFileConflict), pgannotate.ExitFileConflict},
		{"table not found", pgannotate.ErrTableNotFound, pgannotate.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgannotate.ExitCodeForError(tt.err))
		})
	}
}

func TestExitCodeForError_JoinedStaleAndFailure(t *testing.T) {
	err := errors.Join(errors.New("boom"), pgannotate.ErrFileConflict)
	assert.Equal(t, pgannotate.ExitFileConflict, pgannotate.ExitCodeForError(err))
}
