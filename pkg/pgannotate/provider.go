package pgannotate

import "context"

// AnnotationProvider supplies the rendered annotation text for a table.
//
// Render returns ErrTableNotFound (possibly wrapped) when the table is
// unknown to the provider. An empty string with a nil error means the table
// exists but produces no annotation.
type AnnotationProvider interface {
	Render(ctx context.Context, table string) (string, error)
}

// Approver confirms a single pending file change before it is written.
//
// Implementations:
//   - ui.AutoApprover: approves everything (non-interactive runs)
//   - tui.ConfirmApprover: shows the change and asks y/n
type Approver interface {
	// RequestApproval returns true if the change to path may be written.
	// preview is a human-readable rendering of the change.
	RequestApproval(ctx context.Context, path string, preview string) (bool, error)
}
