package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// PromptKind selects the terminal widget used to ask for a field.
type PromptKind int

const (
	// PromptLine is a single line of text; also used for numbers and dates.
	PromptLine PromptKind = iota
	// PromptSecret hides the typed characters.
	PromptSecret
	// PromptMultiline collects several lines.
	PromptMultiline
	// PromptConfirm is a yes/no question.
	PromptConfirm
	// PromptChoice picks one entry from Choices.
	PromptChoice
)

func (k PromptKind) String() string {
	switch k {
	case PromptLine:
		return "line"
	case PromptSecret:
		return "secret"
	case PromptMultiline:
		return "multiline"
	case PromptConfirm:
		return "confirm"
	case PromptChoice:
		return "choice"
	default:
		return fmt.Sprintf("prompt(%d)", int(k))
	}
}

// Prompt is one question, derived from the field being rendered.
type Prompt struct {
	Kind    PromptKind
	Field   string
	Message string
	Help    string
	// Default pre-fills line and multiline prompts.
	Default string
	// Checked is the initial answer of a confirm prompt.
	Checked bool
	// Choices are option labels. Selected is -1 when the current value
	// matches none of them.
	Choices  []string
	Selected int
	PageSize int
}

// Answer is the driver's reply. Only the member matching the prompt kind is
// read: Text for line, secret and multiline prompts, Checked for confirm and
// Choice (an index into Prompt.Choices) for choice prompts.
type Answer struct {
	Text    string
	Checked bool
	Choice  int
}

// PromptDriver abstracts the terminal so rendering can be tested without one.
type PromptDriver interface {
	Ask(ctx context.Context, prompt Prompt) (Answer, error)
	Notify(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns the default driver backed by survey. Notifications
// are written to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	var (
		answer Answer
		err    error
	)
	switch p.Kind {
	case PromptConfirm:
		err = survey.AskOne(&survey.Confirm{Message: p.Message, Help: p.Help, Default: p.Checked}, &answer.Checked)
	case PromptChoice:
		sel := &survey.Select{Message: p.Message, Options: p.Choices, Help: p.Help, PageSize: p.PageSize}
		if p.Selected >= 0 && p.Selected < len(p.Choices) {
			sel.Default = p.Choices[p.Selected]
		}
		// An int response receives the index of the chosen option.
		err = survey.AskOne(sel, &answer.Choice)
	case PromptSecret:
		err = survey.AskOne(&survey.Password{Message: p.Message, Help: p.Help}, &answer.Text)
	case PromptMultiline:
		err = survey.AskOne(&survey.Multiline{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	default:
		err = survey.AskOne(&survey.Input{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	}
	if err != nil {
		return Answer{}, translateSurveyErr(err)
	}
	return answer, nil
}

func (d *surveyDriver) Notify(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
