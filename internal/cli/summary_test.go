package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pgannotate/internal/services"
)

func summaryOf(results ...services.FileResult) services.Summary {
	counts := make(map[services.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return services.Summary{Results: results, Counts: counts}
}

func TestPrintSummary_Annotate(t *testing.T) {
	s := summaryOf(
		services.FileResult{RelativePath: "user.rb", Status: services.StatusAnnotated, Written: true, Delta: "+ id :bigint"},
		services.FileResult{RelativePath: "post.rb", Status: services.StatusUnchanged},
		services.FileResult{RelativePath: "tag.rb", Table: "tags", Status: services.StatusNoTable},
	)

	var buf bytes.Buffer
	printSummary(&buf, s, reportOptions{mode: services.ModeAnnotate})
	out := buf.String()

	assert.Contains(t, out, "user.rb: annotated")
	assert.NotContains(t, out, "post.rb", "unchanged files are hidden unless verbose")
	assert.NotContains(t, out, "+ id :bigint")
	assert.Contains(t, out, `tag.rb: no table "tags"`)
	assert.Contains(t, out, "3 file(s): 1 annotated, 1 unchanged, 1 no table | 1 written")
}

func TestPrintSummary_VerboseShowsEverything(t *testing.T) {
	s := summaryOf(
		services.FileResult{RelativePath: "user.rb", Status: services.StatusUpdated, Written: true, Delta: "+ id :bigint\n- name :text\n"},
		services.FileResult{RelativePath: "post.rb", Status: services.StatusUnchanged},
	)

	var buf bytes.Buffer
	printSummary(&buf, s, reportOptions{mode: services.ModeAnnotate, verbose: true})
	out := buf.String()

	assert.Contains(t, out, "post.rb: unchanged")
	assert.Contains(t, out, "    + id :bigint\n    - name :text\n")
}

func TestPrintSummary_CheckWithDiff(t *testing.T) {
	s := summaryOf(
		services.FileResult{
			RelativePath: "user.rb",
			Status:       services.StatusUpdated,
			Pending:      true,
			Preview:      "--- user.rb\n+++ user.rb\n+# new\n",
		},
	)

	var buf bytes.Buffer
	printSummary(&buf, s, reportOptions{mode: services.ModeCheck, previews: true})
	out := buf.String()

	assert.Contains(t, out, "user.rb: updated (not written)")
	assert.Contains(t, out, "--- user.rb\n+++ user.rb\n+# new\n")
	assert.Contains(t, out, "| 1 out of date")
}

func TestPrintSummary_CheckUpToDate(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, summaryOf(services.FileResult{RelativePath: "a.rb", Status: services.StatusUnchanged}),
		reportOptions{mode: services.ModeCheck})
	assert.Contains(t, buf.String(), "| all up to date")
}

func TestPrintSummary_DryRun(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, summaryOf(services.FileResult{RelativePath: "a.rb", Status: services.StatusRemoved, Pending: true}),
		reportOptions{mode: services.ModeRemove, dryRun: true})
	assert.Contains(t, buf.String(), "| dry run, nothing written")
}

func TestPrintSummary_Error(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, summaryOf(services.FileResult{RelativePath: "a.rb", Status: services.StatusError, Err: errors.New("boom")}),
		reportOptions{mode: services.ModeAnnotate})
	assert.Contains(t, buf.String(), "a.rb: error: boom")
}

func TestPrintSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, services.Summary{}, reportOptions{})
	assert.Equal(t, "No model files found\n", buf.String())
}
