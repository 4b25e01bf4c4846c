package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pgannotate/internal/annotate"
	"github.com/vvka-141/pgannotate/internal/report"
	"github.com/vvka-141/pgannotate/internal/schema"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// DefaultConcurrency is used when Request.Concurrency is not positive.
const DefaultConcurrency = 4

// previewContext is the number of unchanged lines shown around a change.
const previewContext = 3

// FileWriter replaces a file if it still has the expected checksum.
type FileWriter interface {
	Write(ctx context.Context, path, expected string, content []byte) error
}

// Request describes one annotate, remove or check run.
type Request struct {
	Paths       []string
	Mode        Mode
	Placement   annotate.PlacementConfig
	Concurrency int

	// DryRun computes every change without writing or asking.
	DryRun bool

	// Preview attaches a rendered diff to each changed result.
	Preview       bool
	PreviewStyles report.Styles
}

// Annotator scans model files and keeps their schema annotations in sync.
// Safe for concurrent Run calls if its dependencies are.
type Annotator struct {
	scanner  pgannotate.FileScanner
	provider pgannotate.AnnotationProvider
	writer   FileWriter
	approver pgannotate.Approver
	logger   pgannotate.Logger
}

// NewAnnotator creates an Annotator. provider may be nil when the
// Annotator only serves ModeRemove. Panics on any other nil dependency.
func NewAnnotator(
	scanner pgannotate.FileScanner,
	provider pgannotate.AnnotationProvider,
	writer FileWriter,
	approver pgannotate.Approver,
	logger pgannotate.Logger,
) *Annotator {
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if writer == nil {
		panic("writer cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Annotator{
		scanner:  scanner,
		provider: provider,
		writer:   writer,
		approver: approver,
		logger:   logger,
	}
}

// Run processes every model file under req.Paths. Per-file problems are
// recorded in the Summary; the returned error is non-nil when the run
// itself failed, when any file failed, or in ModeCheck when a file is stale
// (pgannotate.ErrStaleAnnotations).
func (a *Annotator) Run(ctx context.Context, req Request) (Summary, error) {
	if err := a.validate(req); err != nil {
		return Summary{}, err
	}

	scan, err := a.scanner.Scan(req.Paths)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to scan model files: %w", err)
	}
	a.logger.Verbose("Found %d model file(s)", len(scan.Files))

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]FileResult, len(scan.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range scan.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.process(gctx, req, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	summary := newSummary(results)
	return summary, summary.err(req.Mode)
}

func (a *Annotator) validate(req Request) error {
	var errs []error
	if !req.Mode.valid() {
		errs = append(errs, fmt.Errorf("unknown mode %d", req.Mode))
	}
	if len(req.Paths) == 0 {
		errs = append(errs, errors.New("no model paths given"))
	}
	if req.Mode != ModeRemove && a.provider == nil {
		errs = append(errs, fmt.Errorf("%s needs a schema provider", req.Mode))
	}
	if err := req.Placement.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", pgannotate.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (a *Annotator) process(ctx context.Context, req Request, file pgannotate.ModelFile) FileResult {
	result := FileResult{Path: file.Path, RelativePath: file.RelativePath, Table: file.Table}

	rendered := ""
	if req.Mode != ModeRemove {
		text, err := a.provider.Render(ctx, file.Table)
		switch {
		case errors.Is(err, pgannotate.ErrTableNotFound):
			return result.with(StatusNoTable, nil)
		case errors.Is(err, schema.ErrTableExcluded):
			result.Detail = "table excluded"
			return result.with(StatusSkipped, nil)
		case err != nil:
			return result.with(StatusError, err)
		}
		rendered = text
	}

	outcome, err := annotate.Rewrite(file.Content, rendered, req.Placement)
	if err != nil {
		return result.with(StatusError, err)
	}
	result.Reason = outcome.Reason
	result.Delta = outcome.Diff.Delta()

	status := statusFor(outcome)
	if !outcome.Changed {
		return result.with(status, nil)
	}

	result.Pending = true
	preview := ""
	if req.Preview || (!req.DryRun && req.Mode != ModeCheck) {
		preview = report.Render(file.RelativePath, file.Content, outcome.Text, previewContext, req.PreviewStyles)
	}
	if req.Preview {
		result.Preview = preview
	}
	if req.Mode == ModeCheck || req.DryRun {
		a.logger.Verbose("%s: would be %s", file.RelativePath, status)
		return result.with(status, nil)
	}

	approved, err := a.approver.RequestApproval(ctx, file.RelativePath, preview)
	if err != nil {
		return result.with(StatusError, fmt.Errorf("approval: %w", err))
	}
	if !approved {
		result.Pending = false
		result.Detail = "declined"
		return result.with(StatusSkipped, nil)
	}

	if err := a.writer.Write(ctx, file.Path, file.Checksum, []byte(outcome.Text)); err != nil {
		return result.with(StatusError, err)
	}
	result.Pending = false
	result.Written = true
	a.logger.Verbose("%s: %s", file.RelativePath, status)
	return result.with(status, nil)
}

// statusFor maps a rewrite outcome to the status reported for the file.
func statusFor(o annotate.Outcome) Status {
	switch {
	case o.Reason == annotate.ReasonSkipped:
		return StatusSkipped
	case o.Reason == annotate.ReasonNoTarget:
		return StatusNoTarget
	case o.Malformed && o.Changed:
		return StatusMalformed
	case o.Reason == annotate.ReasonInserted:
		return StatusAnnotated
	case o.Reason == annotate.ReasonReplaced, o.Reason == annotate.ReasonMoved:
		return StatusUpdated
	case o.Reason == annotate.ReasonRemoved:
		return StatusRemoved
	default:
		return StatusUnchanged
	}
}

// Summary aggregates the results of a run. Results are in scan order.
type Summary struct {
	Results []FileResult
	Counts  map[Status]int
}

func newSummary(results []FileResult) Summary {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return Summary{Results: results, Counts: counts}
}

// Count returns the number of files with status s.
func (s Summary) Count(status Status) int { return s.Counts[status] }

// Pending returns the results whose change was computed but not written.
func (s Summary) Pending() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Pending {
			out = append(out, r)
		}
	}
	return out
}

// Written returns the number of files rewritten on disk.
func (s Summary) Written() int {
	n := 0
	for _, r := range s.Results {
		if r.Written {
			n++
		}
	}
	return n
}

// Failed returns the results with StatusError.
func (s Summary) Failed() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Status == StatusError {
			out = append(out, r)
		}
	}
	return out
}

// Statuses returns the statuses present, in display order.
func (s Summary) Statuses() []Status {
	out := make([]Status, 0, len(s.Counts))
	for status := range s.Counts {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order() < out[j].order() })
	return out
}

func (s Summary) err(mode Mode) error {
	failed := s.Failed()
	if len(failed) > 0 {
		errs := make([]error, len(failed))
		for i, r := range failed {
			errs[i] = fmt.Errorf("%s: %w", r.RelativePath, r.Err)
		}
		return fmt.Errorf("%d file(s) failed: %w", len(failed), errors.Join(errs...))
	}
	if mode == ModeCheck && len(s.Pending()) > 0 {
		return fmt.Errorf("%d file(s): %w", len(s.Pending()), pgannotate.ErrStaleAnnotations)
	}
	return nil
}
