package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/api/middleware"
	"github.com/villaworks/villaserve-backend/api/responses"
	"github.com/villaworks/villaserve-backend/api/validators"
	cartsvc "github.com/villaworks/villaserve-backend/internal/cart"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
	"github.com/villaworks/villaserve-backend/pkg/logger"
	"github.com/villaworks/villaserve-backend/pkg/types"
)

func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

type addCartItemsRequest struct {
	Items []cartItemPayload `json:"items" validate:"required,min=1,dive"`
}

type cartItemPayload struct {
	FoodID   uuid.UUID       `json:"food_id" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Portion  *string         `json:"portion"`
	Price    decimal.Decimal `json:"price"`
}

// CartAddItems appends lines to the caller's active cart, creating it when
// absent.
func CartAddItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]cartsvc.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			inputs = append(inputs, cartsvc.ItemInput{
				FoodID:   item.FoodID,
				Quantity: item.Quantity,
				Portion:  item.Portion,
				Price:    item.Price,
			})
		}

		view, err := svc.AddItems(r.Context(), userID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCartItems(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// editCartItemRequest addresses a line by its identity. new_portion is
// tri-state: absent leaves the portion alone, null clears it, a string sets
// it.
type editCartItemRequest struct {
	FoodID      uuid.UUID        `json:"food_id" validate:"required"`
	OldPortion  *string          `json:"old_portion"`
	OldPrice    decimal.Decimal  `json:"old_price"`
	NewQuantity int              `json:"new_quantity"`
	NewPortion  json.RawMessage  `json:"new_portion"`
	NewPrice    *decimal.Decimal `json:"new_price"`
}

func CartEditItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cartsvc.EditItemInput{
			FoodID:      payload.FoodID,
			OldPortion:  types.PortionFromPtr(payload.OldPortion),
			OldPrice:    payload.OldPrice,
			NewQuantity: payload.NewQuantity,
			NewPrice:    payload.NewPrice,
		}
		if len(payload.NewPortion) > 0 {
			var portion types.Portion
			if err := json.Unmarshal(payload.NewPortion, &portion); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid new portion"))
				return
			}
			input.NewPortion = &portion
		}

		view, err := svc.EditItem(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type setCartStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func CartSetStatus(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCartStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCartStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart status"))
			return
		}

		view, err := svc.SetCartStatus(r.Context(), userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
