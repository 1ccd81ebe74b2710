package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samsaffron/term-copilot/internal/wizard"
)

// StepModel is the bubbletea model for one step of a multi-step input.
// enter submits, shift+tab or ctrl+b goes back, esc or ctrl+c dismisses.
type StepModel struct {
	step   wizard.InputStep
	input  textinput.Model
	styles *Styles
	reply  wizard.Reply
	done   bool
}

// NewStepModel builds the model for step, pre-filled with step.Value.
func NewStepModel(step wizard.InputStep, styles *Styles) StepModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = step.Placeholder
	ti.SetValue(step.Value)
	ti.CursorEnd()
	ti.Focus()
	return StepModel{step: step, input: ti, styles: styles}
}

func (m StepModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m.finish(wizard.Reply{Action: wizard.Submit, Value: m.input.Value()})
		case "shift+tab", "ctrl+b":
			return m.finish(wizard.Reply{Action: wizard.Back, Value: m.input.Value()})
		case "esc", "ctrl+c":
			return m.finish(wizard.Reply{Action: wizard.Dismiss})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m StepModel) finish(reply wizard.Reply) (tea.Model, tea.Cmd) {
	m.reply = reply
	m.done = true
	return m, tea.Quit
}

func (m StepModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	counter := fmt.Sprintf("[%d/%d]", m.step.Ordinal, m.step.TotalSteps)
	b.WriteString(m.styles.StepCounter.Render(counter))
	b.WriteString(" ")
	b.WriteString(m.styles.Title.Render(m.step.Title))
	b.WriteString("\n")
	if m.step.Prompt != "" && m.step.Prompt != m.step.Title {
		b.WriteString(m.styles.Muted.Render(m.step.Prompt))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.step.Error != "" {
		b.WriteString(m.styles.Error.Render(FailIcon + " " + m.step.Error))
		b.WriteString("\n")
	}
	help := "enter submit • esc cancel"
	if m.step.Ordinal > 1 {
		help = "enter submit • shift+tab back • esc cancel"
	}
	b.WriteString(m.styles.Muted.Render(help))
	return b.String()
}

// Reply returns the user's decision once the model has finished.
func (m StepModel) Reply() (wizard.Reply, bool) {
	return m.reply, m.done
}

// RunStep shows step on a terminal and returns the user's decision.
func RunStep(ctx context.Context, in io.Reader, out io.Writer, step wizard.InputStep) (wizard.Reply, error) {
	p := tea.NewProgram(NewStepModel(step, NewStyles(out)),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wizard.Reply{}, ctxErr
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return wizard.Reply{Action: wizard.Dismiss}, nil
		}
		return wizard.Reply{}, err
	}

	reply, ok := final.(StepModel).Reply()
	if !ok {
		return wizard.Reply{Action: wizard.Dismiss}, nil
	}
	return reply, nil
}
