package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrina-app/vitrina-backend/api/responses"
	"github.com/vitrina-app/vitrina-backend/api/validators"
	paymentsvc "github.com/vitrina-app/vitrina-backend/internal/paymentmethods"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
)

// PaymentMethodList returns the store's payment methods. Pass active=true
// to keep only the ones offered at checkout.
func PaymentMethodList(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		methods, err := svc.List(r.Context(), storeID, activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]paymentMethodResponse, 0, len(methods))
		for i := range methods {
			items = append(items, newPaymentMethodResponse(&methods[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

// PaymentMethodCreate registers a settlement option for the store.
func PaymentMethodCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPaymentMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := svc.Create(r.Context(), storeID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPaymentMethodResponse(method))
	}
}

// PaymentMethodToggle flips a method's active flag.
func PaymentMethodToggle(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		methodID, err := validators.ParsePathUUID(chi.URLParam(r, "methodId"), "methodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := svc.Toggle(r.Context(), methodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentMethodResponse(method))
	}
}

type createPaymentMethodRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type paymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"storeId"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func newPaymentMethodResponse(method *models.PaymentMethod) paymentMethodResponse {
	return paymentMethodResponse{
		ID:        method.ID,
		StoreID:   method.StoreID,
		Name:      method.Name,
		IsActive:  method.IsActive,
		CreatedAt: method.CreatedAt,
	}
}
