package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Nivethan26/farmers-gate-backend/api/responses"
	"github.com/Nivethan26/farmers-gate-backend/api/validators"
	"github.com/Nivethan26/farmers-gate-backend/internal/cart"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
)

// QuoteCart prices a cart against live catalog data so clients never compute
// totals themselves.
func QuoteCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload quoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := cart.QuoteRequest{RedeemedPoints: payload.RedeemedPoints}
		for _, line := range payload.Items {
			productID, err := uuid.Parse(strings.TrimSpace(line.ProductID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			req.Items = append(req.Items, cart.QuoteRequestItem{ProductID: productID, Qty: line.Qty})
		}

		quoted, err := svc.Quote(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoted)
	}
}

type quoteCartRequest struct {
	Items          []quoteCartItemRequest `json:"items" validate:"required,min=1,dive"`
	RedeemedPoints int                    `json:"redeemed_points,omitempty" validate:"omitempty,min=0"`
}

type quoteCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}
