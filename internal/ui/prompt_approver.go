package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// PromptApprover asks y/n/a/q on a line-oriented stream. It serves
// --interactive when the terminal cannot host the full-screen prompt, and
// accepts answers piped from a script.
type PromptApprover struct {
	mu     sync.Mutex
	lines  chan string
	errs   chan error
	out    io.Writer
	all    bool
	none   bool
	reader sync.Once
	in     *bufio.Reader
}

func NewPromptApprover(in io.Reader, out io.Writer) *PromptApprover {
	return &PromptApprover{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
}

// readLoop feeds answers to RequestApproval, which selects on them and ctx.
func (a *PromptApprover) readLoop() {
	for {
		line, err := a.in.ReadString('\n')
		if line != "" || err == nil {
			a.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			a.errs <- err
			return
		}
	}
}

func (a *PromptApprover) RequestApproval(ctx context.Context, path, preview string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.all {
		return true, nil
	}
	if a.none {
		return false, nil
	}
	a.reader.Do(func() { go a.readLoop() })

	fmt.Fprintf(a.out, "\n%s\nWrite %s? [y]es/[n]o/[a]ll/[q]uit: ", strings.TrimRight(preview, "\n"), path)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-a.errs:
		a.none = true
		if err == io.EOF {
			fmt.Fprintln(a.out)
			return false, nil
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	case answer := <-a.lines:
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "a", "all":
			a.all = true
			return true, nil
		case "q", "quit":
			a.none = true
			return false, nil
		default:
			return false, nil
		}
	}
}

var _ pgannotate.Approver = (*PromptApprover)(nil)
