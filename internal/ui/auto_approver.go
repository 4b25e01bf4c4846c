package ui

import (
	"context"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// AutoApprover approves every change. Used for non-interactive runs.
type AutoApprover struct {
	logger pgannotate.Logger
}

// NewAutoApprover creates an AutoApprover. Previews are logged at verbose
// level when logger is not nil.
func NewAutoApprover(logger pgannotate.Logger) *AutoApprover {
	return &AutoApprover{logger: logger}
}

func (a *AutoApprover) RequestApproval(_ context.Context, path, preview string) (bool, error) {
	if a.logger != nil {
		a.logger.Verbose("Writing %s\n%s", path, preview)
	}
	return true, nil
}

var _ pgannotate.Approver = (*AutoApprover)(nil)
