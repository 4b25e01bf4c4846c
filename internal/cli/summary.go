package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/pgannotate/internal/services"
	"github.com/vvka-141/pgannotate/internal/tui"
)

type reportOptions struct {
	mode     services.Mode
	verbose  bool
	previews bool
	dryRun   bool
}

// printSummary writes one line per interesting file, the previews when
// requested, and a closing count line.
func printSummary(w io.Writer, s services.Summary, opts reportOptions) {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "No model files found")
		return
	}

	for _, r := range s.Results {
		if r.Status == services.StatusUnchanged && !opts.verbose {
			continue
		}
		line := r.String()
		if r.Pending {
			line += " (not written)"
		}
		fmt.Fprintf(w, "%s %s\n", symbolFor(r), line)

		if opts.verbose && r.Delta != "" {
			for _, d := range strings.Split(strings.TrimRight(r.Delta, "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", d)
			}
		}
		if opts.previews && r.Preview != "" {
			fmt.Fprintln(w, strings.TrimRight(r.Preview, "\n"))
		}
	}

	fmt.Fprintln(w, summaryLine(s, opts))
}

func symbolFor(r services.FileResult) string {
	switch {
	case r.Status == services.StatusError:
		return tui.ErrorStyle.Render(tui.SymbolCross)
	case r.Written:
		return tui.SuccessStyle.Render(tui.SymbolCheck)
	case r.Pending:
		return tui.WarningStyle.Render(tui.SymbolBullet)
	default:
		return tui.MutedStyle.Render(tui.SymbolBullet)
	}
}

func summaryLine(s services.Summary, opts reportOptions) string {
	parts := make([]string, 0, len(s.Counts))
	for _, status := range s.Statuses() {
		parts = append(parts, fmt.Sprintf("%d %s", s.Count(status), status))
	}
	line := fmt.Sprintf("%d file(s): %s", len(s.Results), strings.Join(parts, ", "))

	switch {
	case opts.mode == services.ModeCheck && len(s.Pending()) > 0:
		line += fmt.Sprintf(" | %d out of date", len(s.Pending()))
	case opts.mode == services.ModeCheck:
		line += " | all up to date"
	case opts.dryRun:
		line += " | dry run, nothing written"
	default:
		line += fmt.Sprintf(" | %d written", s.Written())
	}
	return line
}
