package checkout

import (
	"testing"

	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
)

func TestFlowAdvancesOnlyWhenStepValidates(t *testing.T) {
	flow := NewFlow()
	form := validForm()

	blank := Form{}
	if errs, err := flow.Advance(blank); err != nil || errs.Valid() {
		t.Fatalf("expected validation errors, got errs=%v err=%v", errs, err)
	}
	if flow.Step() != StepCustomer {
		t.Fatalf("failed advance must not move, at %d", flow.Step())
	}

	if errs, err := flow.Advance(form); err != nil || !errs.Valid() {
		t.Fatalf("expected advance, got errs=%v err=%v", errs, err)
	}
	if flow.Step() != StepDelivery {
		t.Fatalf("expected delivery step, at %d", flow.Step())
	}

	if errs, err := flow.Advance(form); err != nil || !errs.Valid() {
		t.Fatalf("expected advance, got errs=%v err=%v", errs, err)
	}
	if flow.Step() != StepPayment {
		t.Fatalf("expected payment step, at %d", flow.Step())
	}

	if _, err := flow.Advance(form); err == nil {
		t.Fatalf("expected error advancing past final step")
	}
}

func TestFlowRetreatNeverValidates(t *testing.T) {
	flow := NewFlow()
	form := validForm()
	if _, err := flow.Advance(form); err != nil {
		t.Fatalf("advance: %v", err)
	}

	flow.Retreat()
	if flow.Step() != StepCustomer {
		t.Fatalf("expected customer step, at %d", flow.Step())
	}

	// retreat at the start is a no-op
	flow.Retreat()
	if flow.Step() != StepCustomer {
		t.Fatalf("expected customer step, at %d", flow.Step())
	}
}

func TestFlowSubmitOnlyFromFinalStep(t *testing.T) {
	flow := NewFlow()
	form := validForm()

	_, err := flow.ReadyToSubmit(form)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict before final step, got %v", err)
	}

	flow.Advance(form)
	flow.Advance(form)
	if errs, err := flow.ReadyToSubmit(form); err != nil || !errs.Valid() {
		t.Fatalf("expected submit allowed, got errs=%v err=%v", errs, err)
	}
}
