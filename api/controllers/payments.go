package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimalstore/storefront-api/api/middleware"
	"github.com/minimalstore/storefront-api/api/responses"
	"github.com/minimalstore/storefront-api/api/validators"
	"github.com/minimalstore/storefront-api/internal/orders"
	"github.com/minimalstore/storefront-api/internal/payments"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

type createIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type refundRequest struct {
	OrderID uuid.UUID        `json:"order_id" validate:"required"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// PaymentCreateIntent opens a gateway session for an order.
func PaymentCreateIntent(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createIntentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.ProcessPayment(r.Context(), req.OrderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// PaymentConfirm is the client-side completion callback.
func PaymentConfirm(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPayment(r.Context(), req.PaymentIntentID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func PaymentMethods(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Methods(r.Context()))
	}
}

func PaymentHistory(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		entries, meta, err := svc.History(r.Context(), userID, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, entries, meta)
	}
}

// PaymentRefund is admin-only; routing enforces that.
func PaymentRefund(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refundRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refund, err := svc.Refund(r.Context(), req.OrderID, req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refund)
	}
}
