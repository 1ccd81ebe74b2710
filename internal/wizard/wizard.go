// Package wizard collects a fixed, ordered list of text fields from the user.
//
// A collection is a strict sequential state machine: the session sits at one
// step at a time, moves forward on valid input, back on request, and ends
// either Completed (every answer, in order) or Cancelled (nothing).
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = errors.New("input cancelled")

// Step describes one field of a multi-step input.
type Step struct {
	Title       string
	Prompt      string
	Placeholder string
	Default     string
	// ErrorText is shown when the answer is empty.
	ErrorText string
	// Validate runs after the non-empty check. A non-nil error re-prompts
	// the same step with the error message.
	Validate func(string) error
}

// InputStep is what the host is asked to show for the current step.
type InputStep struct {
	Title       string
	Ordinal     int // 1-based
	TotalSteps  int
	Value       string // pre-filled value
	Prompt      string
	Placeholder string
	Error       string // validation message from the previous attempt
}

// Action is the user's decision on a step.
type Action int

const (
	Submit Action = iota
	Back
	Dismiss
)

func (a Action) String() string {
	switch a {
	case Submit:
		return "submit"
	case Back:
		return "back"
	case Dismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Reply is the host's answer to a single InputStep.
type Reply struct {
	Action Action
	Value  string
}

// Prompter shows one step at a time.
type Prompter interface {
	PromptStep(ctx context.Context, step InputStep) (Reply, error)
}

// State is the phase of a Session.
type State int

const (
	AtStep State = iota
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case AtStep:
		return "at-step"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session holds the answers of one collection. It is owned by a single
// Collect call and never shared.
type Session struct {
	steps  []Step
	values []string
	index  int
	state  State
	errMsg string
	// draft is rejected input for the current step. It is shown instead of
	// the confirmed answer until the session leaves the step.
	draft    string
	hasDraft bool
}

// NewSession starts a session at the first step.
func NewSession(steps []Step) (*Session, error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard: no steps")
	}
	values := make([]string, len(steps))
	for i, s := range steps {
		values[i] = s.Default
	}
	return &Session{steps: steps, values: values}, nil
}

// State reports the current phase.
func (s *Session) State() State { return s.state }

// Index reports the 0-based current step.
func (s *Session) Index() int { return s.index }

// Current returns the view of the active step.
func (s *Session) Current() InputStep {
	st := s.steps[s.index]
	value := s.values[s.index]
	if s.hasDraft {
		value = s.draft
	}
	return InputStep{
		Title:       st.Title,
		Ordinal:     s.index + 1,
		TotalSteps:  len(s.steps),
		Value:       value,
		Prompt:      st.Prompt,
		Placeholder: st.Placeholder,
		Error:       s.errMsg,
	}
}

// Apply moves the session according to reply. It is a no-op once the
// session has reached a terminal state.
func (s *Session) Apply(reply Reply) State {
	if s.state != AtStep {
		return s.state
	}

	switch reply.Action {
	case Dismiss:
		s.state = Cancelled
		s.clearDraft()
	case Back:
		s.clearDraft()
		if s.index > 0 {
			s.index--
		}
	case Submit:
		st := s.steps[s.index]
		if msg := validate(st, reply.Value); msg != "" {
			// Stay put. The confirmed answer is untouched; the rejected
			// text is offered back for editing.
			s.draft, s.hasDraft = reply.Value, true
			s.errMsg = msg
			return s.state
		}
		s.values[s.index] = reply.Value
		s.clearDraft()
		if s.index == len(s.steps)-1 {
			s.state = Completed
		} else {
			s.index++
		}
	}
	return s.state
}

func (s *Session) clearDraft() {
	s.draft, s.hasDraft = "", false
	s.errMsg = ""
}

// Values returns a copy of the answers once the session has completed,
// and nil otherwise.
func (s *Session) Values() []string {
	if s.state != Completed {
		return nil
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func validate(st Step, value string) string {
	if strings.TrimSpace(value) == "" {
		if st.ErrorText != "" {
			return st.ErrorText
		}
		return "A value is required"
	}
	if st.Validate != nil {
		if err := st.Validate(value); err != nil {
			return err.Error()
		}
	}
	return ""
}

// Run drives steps through p until the session completes or is cancelled.
// It returns exactly len(steps) answers, or an error and no answers.
func Run(ctx context.Context, p Prompter, steps []Step) ([]string, error) {
	sess, err := NewSession(steps)
	if err != nil {
		return nil, err
	}

	for sess.State() == AtStep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reply, err := p.PromptStep(ctx, sess.Current())
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("step %d: %w", sess.Index()+1, err)
		}
		sess.Apply(reply)
	}

	if sess.State() == Cancelled {
		return nil, ErrCancelled
	}
	return sess.Values(), nil
}

// FieldOption adjusts the steps Collect builds.
type FieldOption func(steps []Step)

// WithField lets fn refine the step for field i, e.g. to set a placeholder
// or a validator. Out of range indexes are ignored.
func WithField(i int, fn func(*Step)) FieldOption {
	return func(steps []Step) {
		if i >= 0 && i < len(steps) {
			fn(&steps[i])
		}
	}
}

// Collect asks for len(prompts) fields, titled by titles in the same order.
// Each prompt is also its placeholder unless an option says otherwise.
func Collect(ctx context.Context, p Prompter, prompts, titles []string, opts ...FieldOption) ([]string, error) {
	if len(prompts) != len(titles) {
		return nil, fmt.Errorf("wizard: %d prompts but %d titles", len(prompts), len(titles))
	}
	steps := make([]Step, len(prompts))
	for i := range prompts {
		steps[i] = Step{Title: titles[i], Prompt: prompts[i], Placeholder: prompts[i]}
	}
	for _, opt := range opts {
		opt(steps)
	}
	return Run(ctx, p, steps)
}
