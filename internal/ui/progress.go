package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// spinnerModel shows a spinner with a title until it receives
// progressDoneMsg. It ignores keys: an in-flight request cannot be cancelled.
type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
	styles  *Styles
}

type progressDoneMsg struct{}

func newSpinnerModel(title string, styles *Styles) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return spinnerModel{spinner: s, title: title, styles: styles}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title
}

// Spinner shows progress on a terminal.
type Spinner struct {
	out    io.Writer
	styles *Styles
}

// NewSpinner returns a Spinner drawing on out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, styles: NewStyles(out)}
}

// Begin starts the spinner and returns the function that stops and clears it.
// The returned function is safe to call more than once.
func (s *Spinner) Begin(title string) func() {
	p := tea.NewProgram(newSpinnerModel(title, s.styles),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
		tea.WithoutSignalHandler(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.Send(progressDoneMsg{})
			<-done
		})
	}
}

// LineProgress is the non-interactive fallback: it prints the title once and
// clears nothing.
type LineProgress struct {
	out    io.Writer
	styles *Styles
}

// NewLineProgress returns a LineProgress writing to out.
func NewLineProgress(out io.Writer) *LineProgress {
	return &LineProgress{out: out, styles: NewStyles(out)}
}

func (l *LineProgress) Begin(title string) func() {
	fmt.Fprintln(l.out, l.styles.Muted.Render(title))
	return func() {}
}
