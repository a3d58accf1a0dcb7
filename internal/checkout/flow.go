package checkout

import (
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
)

// Flow is the strict sequential checkout state machine. Steps advance one
// at a time and only when the current step's fields validate; retreating
// never validates. Submission is reachable only from the final step.
type Flow struct {
	step Step
}

// NewFlow starts a checkout at the customer step.
func NewFlow() *Flow {
	return &Flow{step: StepCustomer}
}

// Step returns the current position.
func (f *Flow) Step() Step {
	return f.step
}

// Advance moves to the next step when the current one validates. The
// returned map carries field errors when it does not.
func (f *Flow) Advance(form Form) (ValidationErrors, error) {
	if f.step >= FinalStep {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already at final step")
	}
	if errs := ValidateStep(f.step, form); !errs.Valid() {
		return errs, nil
	}
	f.step++
	return nil, nil
}

// Retreat moves back one step. It never validates and is a no-op at the start.
func (f *Flow) Retreat() {
	if f.step > StepCustomer {
		f.step--
	}
}

// ReadyToSubmit reports whether the flow may submit: the final step must be
// reached and the whole form must validate.
func (f *Flow) ReadyToSubmit(form Form) (ValidationErrors, error) {
	if f.step != FinalStep {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission requires the payment step")
	}
	if errs := ValidateAll(form); !errs.Valid() {
		return errs, nil
	}
	return nil, nil
}
