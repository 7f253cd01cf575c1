package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Fill drives an interactive session: every visible field is prompted through
// ctrl.Render, then the form is submitted. When validation fails the fields
// are prompted again, current answers as defaults, until the submission goes
// through or maxAttempts is reached (zero means no limit).
func (r *Renderer) Fill(ctx context.Context, ctrl *form.Controller, maxAttempts int) error {
	for attempt := 1; ; attempt++ {
		if _, err := ctrl.Render(ctx); err != nil {
			return err
		}
		outcome, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}
		switch outcome {
		case form.OutcomeSubmitted:
			return nil
		case form.OutcomeBusy:
			return fmt.Errorf("tui: form is already being submitted")
		}

		count := len(ctrl.Errors())
		if maxAttempts > 0 && attempt >= maxAttempts {
			return fmt.Errorf("%w: %d errors remain", ErrTooManyAttempts, count)
		}
		msg := fmt.Sprintf("%sPlease fix %d field(s) and try again.", r.theme.ErrorPrefix, count)
		if err := r.driver.Notify(ctx, msg); err != nil {
			return err
		}
	}
}
