package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
	"github.com/villaworks/villaserve-backend/pkg/types"
)

// Service exposes cart operations for a single resident.
type Service interface {
	AddItems(ctx context.Context, userID uuid.UUID, inputs []ItemInput) (*CartView, error)
	GetCartItems(ctx context.Context, userID uuid.UUID) (*CartView, error)
	EditItem(ctx context.Context, userID uuid.UUID, input EditItemInput) (*CartView, error)
	SetCartStatus(ctx context.Context, userID uuid.UUID, status enums.CartStatus) (*CartView, error)
}

type service struct {
	repo  CartRepository
	tx    txRunner
	foods foodLoader
	users userLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, foods foodLoader, users userLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if foods == nil {
		return nil, fmt.Errorf("food loader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{repo: repo, tx: tx, foods: foods, users: users}, nil
}

// ItemInput is one line of an add request. Portion is optional; the unit
// price comes from the caller and is trusted as given, so the same food can
// sit in the cart at several price tiers.
type ItemInput struct {
	FoodID   uuid.UUID
	Quantity int
	Portion  *string
	Price    decimal.Decimal
}

// EditItemInput addresses an existing line by its identity (food, portion,
// snapshotted price) and carries the new values. Nil NewPortion / NewPrice
// leave that part of the identity unchanged.
type EditItemInput struct {
	FoodID      uuid.UUID
	OldPortion  types.Portion
	OldPrice    decimal.Decimal
	NewQuantity int
	NewPortion  *types.Portion
	NewPrice    *decimal.Decimal
}

// CartView is the read model returned by every cart operation.
type CartView struct {
	ID        *uuid.UUID       `json:"id"`
	Status    enums.CartStatus `json:"status"`
	ItemTotal decimal.Decimal  `json:"item_total"`
	Items     []LineView       `json:"items"`
	User      *UserSummary     `json:"user,omitempty"`
}

// LineView is one cart line enriched with catalog display data.
type LineView struct {
	FoodID    uuid.UUID       `json:"food_id"`
	Name      string          `json:"name"`
	Portion   *string         `json:"portion"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Food      *FoodSummary    `json:"food,omitempty"`
}

// FoodSummary carries the catalog fields clients render alongside a line.
type FoodSummary struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url"`
	IsAvailable bool      `json:"is_available"`
}

// UserSummary identifies the cart owner.
type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	VillaID   *uuid.UUID `json:"villa_id"`
}

// AddItems appends lines to the user's active cart, creating the cart when
// none exists. Incoming lines matching an existing line's identity merge
// into it by summing quantities; the order lines were first added is kept.
func (s *service) AddItems(ctx context.Context, userID uuid.UUID, inputs []ItemInput) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, in := range inputs {
		if in.FoodID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
		}
		if in.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if in.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
	}

	incoming := make([]models.CartItem, 0, len(inputs))
	for _, in := range inputs {
		item := models.CartItem{
			FoodID:    in.FoodID,
			Portion:   types.PortionFromPtr(in.Portion),
			Quantity:  in.Quantity,
			UnitPrice: in.Price,
		}
		// display snapshot only; a missing catalog entry never fails the add
		if food, _ := s.foods.GetByID(ctx, in.FoodID); food != nil {
			item.Name = food.Name
		}
		incoming = append(incoming, item)
	}

	saved, err := s.mutateActiveCart(ctx, userID, true, func(items []models.CartItem) ([]models.CartItem, error) {
		return mergeIncoming(items, incoming), nil
	})
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		user = nil
	}
	return s.buildView(ctx, saved, user), nil
}

// GetCartItems returns the user's active cart. A user without an active cart
// gets an empty view rather than an error.
func (s *service) GetCartItems(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if record == nil {
		return emptyView(), nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		user = nil // display data only; the cart still renders
	}
	return s.buildView(ctx, record, user), nil
}

// EditItem rewrites one line of the active cart. The line is located by its
// old identity; changing portion or price can make the line's identity land
// on another existing line, in which case the two collapse into one with
// their quantities summed. A non-positive new quantity removes the line.
func (s *service) EditItem(ctx context.Context, userID uuid.UUID, input EditItemInput) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.FoodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	if input.OldPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.NewPrice != nil && input.NewPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	oldKey := lineKey{foodID: input.FoodID, portion: input.OldPortion, price: input.OldPrice}
	newKey := oldKey
	if input.NewPortion != nil {
		newKey.portion = *input.NewPortion
	}
	if input.NewPrice != nil {
		newKey.price = *input.NewPrice
	}

	saved, err := s.mutateActiveCart(ctx, userID, false, func(items []models.CartItem) ([]models.CartItem, error) {
		next, err := resolveEdit(items, oldKey, newKey, input.NewQuantity)
		if err == errLineNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return next, err
	})
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		user = nil
	}
	return s.buildView(ctx, saved, user), nil
}

// SetCartStatus changes the active cart's status. Ordered carts never
// surface as the active cart, so the ordered status is terminal.
func (s *service) SetCartStatus(ctx context.Context, userID uuid.UUID, status enums.CartStatus) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart status")
	}

	var saved *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		if status == record.Status {
			saved = record
			return nil
		}
		record.Status = status
		record.ItemTotal = itemTotal(record.Items)
		saved, err = txRepo.Update(ctx, record)
		return err
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart status")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		user = nil
	}
	return s.buildView(ctx, saved, user), nil
}

// mutateActiveCart loads the user's active cart, applies fn to its lines and
// persists the rewritten lines together with the recomputed total, all in
// one transaction.
func (s *service) mutateActiveCart(ctx context.Context, userID uuid.UUID, createIfMissing bool, fn func([]models.CartItem) ([]models.CartItem, error)) (*models.CartRecord, error) {
	var saved *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			if !createIfMissing {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
			}
			record, err = txRepo.Create(ctx, &models.CartRecord{
				UserID:    userID,
				Status:    enums.CartStatusInCart,
				ItemTotal: decimal.Zero,
			})
			if err != nil {
				return err
			}
		}

		next, err := fn(record.Items)
		if err != nil {
			return err
		}

		if err := txRepo.ReplaceItems(ctx, record.ID, next); err != nil {
			return err
		}
		record.Items = next
		record.ItemTotal = itemTotal(next)
		saved, err = txRepo.Update(ctx, record)
		return err
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return saved, nil
}

func (s *service) buildView(ctx context.Context, record *models.CartRecord, user *models.User) *CartView {
	if record == nil {
		return emptyView()
	}
	view := &CartView{
		ID:        &record.ID,
		Status:    record.Status,
		ItemTotal: record.ItemTotal,
		Items:     make([]LineView, 0, len(record.Items)),
	}
	if user != nil {
		view.User = &UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			VillaID:   user.VillaID,
		}
	}

	foodCache := map[uuid.UUID]*models.Food{}
	for _, item := range record.Items {
		line := LineView{
			FoodID:    item.FoodID,
			Name:      item.Name,
			Portion:   item.Portion.Ptr(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		food, ok := foodCache[item.FoodID]
		if !ok {
			// best effort; a deleted catalog entry must not break the cart
			food, _ = s.foods.GetByID(ctx, item.FoodID)
			foodCache[item.FoodID] = food
		}
		if food != nil {
			if line.Name == "" {
				line.Name = food.Name
			}
			line.Food = &FoodSummary{
				ID:          food.ID,
				Code:        food.Code,
				Name:        food.Name,
				Category:    food.Category,
				ImageURL:    food.ImageURL,
				IsAvailable: food.IsAvailable,
			}
		}
		view.Items = append(view.Items, line)
	}
	return view
}

func emptyView() *CartView {
	return &CartView{
		Status:    enums.CartStatusInCart,
		ItemTotal: decimal.Zero,
		Items:     []LineView{},
	}
}
