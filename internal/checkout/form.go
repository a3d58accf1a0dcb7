package checkout

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrina-app/vitrina-backend/pkg/enums"
)

// Step identifies one stage of the checkout flow.
type Step int

const (
	StepCustomer Step = 1
	StepDelivery Step = 2
	StepPayment  Step = 3
)

// FinalStep is the last stage before submission.
const FinalStep = StepPayment

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Form is the transient multi-step data collected before order submission.
type Form struct {
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerEmail   string               `json:"customerEmail"`
	DeliveryMethod  enums.DeliveryMethod `json:"deliveryMethod"`
	ShippingAddress string               `json:"shippingAddress"`
	PaymentMethodID uuid.UUID            `json:"paymentMethodId"`
	Notes           string               `json:"notes"`
}

// ValidationErrors maps field names to messages. An empty map means valid.
type ValidationErrors map[string]string

// Valid reports whether no field failed validation.
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// ValidateStep checks the fields belonging to a single step. Fields of
// other steps are ignored so each screen only surfaces its own errors.
func ValidateStep(step Step, form Form) ValidationErrors {
	errs := ValidationErrors{}
	switch step {
	case StepCustomer:
		if strings.TrimSpace(form.CustomerName) == "" {
			errs["customerName"] = "name is required"
		}
		if strings.TrimSpace(form.CustomerPhone) == "" {
			errs["customerPhone"] = "phone is required"
		}
		if email := strings.TrimSpace(form.CustomerEmail); email != "" && !emailRe.MatchString(email) {
			errs["customerEmail"] = "email is invalid"
		}
	case StepDelivery:
		if !form.DeliveryMethod.IsValid() {
			errs["deliveryMethod"] = "delivery method is required"
			break
		}
		if form.DeliveryMethod == enums.DeliveryMethodDelivery && strings.TrimSpace(form.ShippingAddress) == "" {
			errs["shippingAddress"] = "shipping address is required for delivery"
		}
	case StepPayment:
		if form.PaymentMethodID == uuid.Nil {
			errs["paymentMethod"] = "payment method is required"
		}
	default:
		errs["step"] = "unknown checkout step"
	}
	return errs
}

// ValidateAll runs every step's validation, merging the field errors.
// Submission requires the full form to pass regardless of screen state.
func ValidateAll(form Form) ValidationErrors {
	errs := ValidationErrors{}
	for step := StepCustomer; step <= FinalStep; step++ {
		for field, msg := range ValidateStep(step, form) {
			errs[field] = msg
		}
	}
	return errs
}
