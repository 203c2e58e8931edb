package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/api/responses"
	"github.com/Nivethan26/farmers-gate-backend/api/validators"
	"github.com/Nivethan26/farmers-gate-backend/internal/negotiations"
	"github.com/Nivethan26/farmers-gate-backend/internal/users"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
)

// OpenNegotiation starts a buyer price request against a listing.
func OpenNegotiation(svc negotiations.Service, usersSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || usersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, actorRole, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actorRole != enums.UserRoleBuyer {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers can open negotiations"))
			return
		}

		var payload openNegotiationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(payload.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		buyer, err := usersSvc.Get(r.Context(), actorID, actorRole, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		negotiation, err := svc.Open(r.Context(), negotiations.OpenInput{
			BuyerID:        actorID,
			BuyerName:      buyer.Name,
			ProductID:      productID,
			RequestedPrice: payload.RequestedPrice,
			Notes:          strings.TrimSpace(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, negotiation)
	}
}

// ListNegotiations is the admin listing with an optional status filter.
func ListNegotiations(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r, pagination.DefaultPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters negotiations.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseNegotiationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func NegotiationStats(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

func BuyerNegotiations(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePageParams(r, pagination.DefaultPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForBuyer(r.Context(), actorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func SellerNegotiations(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePageParams(r, pagination.DefaultPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForSeller(r.Context(), actorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetNegotiation(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, actorRole, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "negotiationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		negotiation, err := svc.Get(r.Context(), actorID, actorRole, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, negotiation)
	}
}

// SellerNegotiationAction applies the seller's counter, accept, or reject.
func SellerNegotiationAction(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "negotiationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sellerActionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action := negotiations.SellerAction(strings.ToLower(strings.TrimSpace(payload.Action)))
		switch action {
		case negotiations.SellerActionCounter, negotiations.SellerActionAccept, negotiations.SellerActionReject:
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "action must be counter, accept, or reject"))
			return
		}

		negotiation, err := svc.SellerUpdate(r.Context(), negotiations.SellerUpdateInput{
			NegotiationID: id,
			SellerID:      actorID,
			Action:        action,
			CounterPrice:  payload.CounterPrice,
			CounterNotes:  payload.CounterNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, negotiation)
	}
}

// AcceptCounter lets the buyer take the seller's counter offer.
func AcceptCounter(svc negotiations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "negotiation service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "negotiationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		negotiation, err := svc.AcceptCounter(r.Context(), actorID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, negotiation)
	}
}

type openNegotiationRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	RequestedPrice decimal.Decimal `json:"requested_price" validate:"required"`
	Notes          string          `json:"notes,omitempty"`
}

type sellerActionRequest struct {
	Action       string           `json:"action" validate:"required"`
	CounterPrice *decimal.Decimal `json:"counter_price,omitempty"`
	CounterNotes *string          `json:"counter_notes,omitempty"`
}
