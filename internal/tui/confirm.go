package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// Decision is the answer given at the confirmation prompt.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionYes
	DecisionNo
	DecisionAll
	DecisionQuit
)

// ConfirmModel is a bubbletea model asking whether one file may be written.
type ConfirmModel struct {
	path     string
	preview  string
	keys     KeyMap
	decision Decision
}

func NewConfirmModel(path, preview string) ConfirmModel {
	return ConfirmModel{path: path, preview: preview, keys: DefaultKeyMap()}
}

func (m ConfirmModel) Init() tea.Cmd { return nil }

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.decision = DecisionYes
	case key.Matches(keyMsg, m.keys.No):
		m.decision = DecisionNo
	case key.Matches(keyMsg, m.keys.All):
		m.decision = DecisionAll
	case key.Matches(keyMsg, m.keys.Quit):
		m.decision = DecisionQuit
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.decision != DecisionPending {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Write " + m.path + "?"))
	b.WriteByte('\n')
	b.WriteString(BoxStyle.Render(strings.TrimRight(m.preview, "\n")))
	b.WriteByte('\n')
	b.WriteString(HelpStyle.Render(m.keys.HelpText()))
	b.WriteByte('\n')
	return b.String()
}

// Decision returns the answer, or DecisionPending if none was given.
func (m ConfirmModel) Decision() Decision { return m.decision }

// ConfirmApprover asks for each file in a bubbletea prompt. Calls are
// serialized so concurrent workers never share the terminal. "a" approves
// every later file and "q" rejects every later file without asking.
type ConfirmApprover struct {
	mu     sync.Mutex
	sticky Decision
	input  io.Reader
	output io.Writer
}

// NewConfirmApprover prompts on in and out; nil means the process's
// terminal.
func NewConfirmApprover(in io.Reader, out io.Writer) *ConfirmApprover {
	return &ConfirmApprover{input: in, output: out}
}

func (a *ConfirmApprover) RequestApproval(ctx context.Context, path, preview string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.sticky {
	case DecisionAll:
		return true, nil
	case DecisionQuit:
		return false, nil
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.input != nil {
		opts = append(opts, tea.WithInput(a.input))
	}
	if a.output != nil {
		opts = append(opts, tea.WithOutput(a.output))
	}

	final, err := tea.NewProgram(NewConfirmModel(path, preview), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	decision := final.(ConfirmModel).Decision()
	if decision == DecisionAll || decision == DecisionQuit {
		a.sticky = decision
	}
	return decision == DecisionYes || decision == DecisionAll, nil
}

var _ pgannotate.Approver = (*ConfirmApprover)(nil)
