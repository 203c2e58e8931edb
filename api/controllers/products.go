package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/api/responses"
	"github.com/Nivethan26/farmers-gate-backend/api/validators"
	productsvc "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/internal/users"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
)

// ListProducts serves the public browse endpoint with filters and paging.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r, pagination.ProductPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 64),
			District: validators.SanitizeString(r.URL.Query().Get("district"), 64),
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), 128),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("supplyType")); raw != "" {
			supply, err := enums.ParseSupplyType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supply type"))
				return
			}
			filters.SupplyType = &supply
		}

		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// SellerProducts lists a seller's catalog for public storefront pages.
func SellerProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := pathUUID(r, "sellerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// MyProducts lists the authenticated seller's own catalog.
func MyProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListBySeller(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func CreateProduct(svc productsvc.Service, usersSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || usersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actorID, actorRole, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actorRole != enums.UserRoleSeller {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers can create listings"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Seller name is snapshotted onto the listing, never trusted from
		// the payload.
		seller, err := usersSvc.Get(r.Context(), actorID, actorRole, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), actorID, seller.Name, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), actorID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actorID, _, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name               string          `json:"name" validate:"required"`
	Category           string          `json:"category" validate:"required"`
	PricePerKg         decimal.Decimal `json:"price_per_kg" validate:"required"`
	SupplyType         string          `json:"supply_type" validate:"required"`
	LocationDistrict   string          `json:"location_district" validate:"required"`
	Image              *string         `json:"image,omitempty"`
	StockQty           int             `json:"stock_qty" validate:"min=0"`
	Description        string          `json:"description,omitempty"`
	NegotiationEnabled bool            `json:"negotiation_enabled"`
	ExpiresOn          *time.Time      `json:"expires_on,omitempty"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateInput, error) {
	supply, err := enums.ParseSupplyType(strings.TrimSpace(r.SupplyType))
	if err != nil {
		return productsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supply type")
	}

	return productsvc.CreateInput{
		Name:               strings.TrimSpace(r.Name),
		Category:           strings.TrimSpace(r.Category),
		PricePerKg:         r.PricePerKg,
		SupplyType:         supply,
		LocationDistrict:   strings.TrimSpace(r.LocationDistrict),
		Image:              r.Image,
		StockQty:           r.StockQty,
		Description:        strings.TrimSpace(r.Description),
		NegotiationEnabled: r.NegotiationEnabled,
		ExpiresOn:          r.ExpiresOn,
	}, nil
}

type updateProductRequest struct {
	Name               *string          `json:"name,omitempty"`
	Category           *string          `json:"category,omitempty"`
	PricePerKg         *decimal.Decimal `json:"price_per_kg,omitempty"`
	SupplyType         *string          `json:"supply_type,omitempty"`
	LocationDistrict   *string          `json:"location_district,omitempty"`
	Image              *string          `json:"image,omitempty"`
	StockQty           *int             `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	Description        *string          `json:"description,omitempty"`
	NegotiationEnabled *bool            `json:"negotiation_enabled,omitempty"`
	ExpiresOn          *time.Time       `json:"expires_on,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateInput, error) {
	input := productsvc.UpdateInput{
		Name:               r.Name,
		Category:           r.Category,
		PricePerKg:         r.PricePerKg,
		LocationDistrict:   r.LocationDistrict,
		Image:              r.Image,
		StockQty:           r.StockQty,
		Description:        r.Description,
		NegotiationEnabled: r.NegotiationEnabled,
		ExpiresOn:          r.ExpiresOn,
	}
	if r.SupplyType != nil {
		supply, err := enums.ParseSupplyType(strings.TrimSpace(*r.SupplyType))
		if err != nil {
			return productsvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supply type")
		}
		input.SupplyType = &supply
	}
	return input, nil
}
