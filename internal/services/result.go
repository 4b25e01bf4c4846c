package services

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgannotate/internal/annotate"
)

// Mode selects what Run does with each file.
type Mode int

const (
	// ModeAnnotate inserts or refreshes annotations.
	ModeAnnotate Mode = iota
	// ModeRemove strips annotations. No database is needed.
	ModeRemove
	// ModeCheck reports stale files without writing.
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeAnnotate:
		return "annotate"
	case ModeRemove:
		return "remove"
	case ModeCheck:
		return "check"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) valid() bool { return m >= ModeAnnotate && m <= ModeCheck }

// Status classifies the result for one file.
type Status string

const (
	StatusAnnotated Status = "annotated"
	StatusUpdated   Status = "updated"
	StatusRemoved   Status = "removed"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusNoTarget  Status = "no target"
	StatusNoTable   Status = "no table"
	StatusMalformed Status = "malformed"
	StatusError     Status = "error"
)

var statusOrder = []Status{
	StatusAnnotated,
	StatusUpdated,
	StatusRemoved,
	StatusMalformed,
	StatusUnchanged,
	StatusSkipped,
	StatusNoTarget,
	StatusNoTable,
	StatusError,
}

func (s Status) order() int {
	for i, o := range statusOrder {
		if o == s {
			return i
		}
	}
	return len(statusOrder)
}

// FileResult is the outcome for one model file.
type FileResult struct {
	Path         string
	RelativePath string
	Table        string
	Status       Status
	Reason       annotate.Reason

	// Detail qualifies the status, e.g. "declined" or "table excluded".
	Detail string

	// Delta lists column changes, one per line.
	Delta string

	// Pending is set when the file needs a change that was not written.
	Pending bool

	// Written is set when the file was rewritten.
	Written bool

	Preview string
	Err     error
}

func (r FileResult) with(status Status, err error) FileResult {
	r.Status = status
	r.Err = err
	return r
}

// String renders the result as one log line.
func (r FileResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.RelativePath, r.Status)
	if r.Detail != "" {
		fmt.Fprintf(&b, " (%s)", r.Detail)
	}
	if r.Status == StatusNoTable {
		fmt.Fprintf(&b, " %q", r.Table)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, ": %v", r.Err)
	}
	return b.String()
}
