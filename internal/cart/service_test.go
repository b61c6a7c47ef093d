package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
	"github.com/villaworks/villaserve-backend/pkg/types"
)

func TestAddItemsRejectsBadInput(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)

	cases := []struct {
		name   string
		userID uuid.UUID
		inputs []ItemInput
	}{
		{"no user", uuid.Nil, []ItemInput{{FoodID: env.food.ID, Quantity: 1}}},
		{"no items", env.user.ID, nil},
		{"zero quantity", env.user.ID, []ItemInput{{FoodID: env.food.ID, Quantity: 0}}},
		{"negative quantity", env.user.ID, []ItemInput{{FoodID: env.food.ID, Quantity: -2}}},
		{"missing food id", env.user.ID, []ItemInput{{Quantity: 1}}},
		{"negative price", env.user.ID, []ItemInput{{FoodID: env.food.ID, Quantity: 1, Price: decimal.RequireFromString("-1.00")}}},
	}
	for _, tc := range cases {
		_, err := env.svc.AddItems(context.Background(), tc.userID, tc.inputs)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestAddItemsCreatesCartWithCallerPrice(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	price := decimal.RequireFromString("100.00")

	view, err := env.svc.AddItems(context.Background(), env.user.ID, []ItemInput{
		{FoodID: env.food.ID, Quantity: 2, Portion: strPtr("large"), Price: price},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID == nil {
		t.Fatal("expected a cart to be created")
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Items))
	}
	item := view.Items[0]
	if !item.UnitPrice.Equal(price) {
		t.Fatalf("expected caller price %s kept, got %s", price, item.UnitPrice)
	}
	if item.Name != env.food.Name {
		t.Fatalf("expected catalog name snapshotted, got %q", item.Name)
	}
	if !view.ItemTotal.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("unexpected total %s", view.ItemTotal)
	}
	if view.User == nil || view.User.ID != env.user.ID {
		t.Fatalf("expected owner summary on view, got %+v", view.User)
	}
}

func TestAddItemsKeepsPriceTiersDistinct(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)

	view, err := env.svc.AddItems(context.Background(), env.user.ID, []ItemInput{
		{FoodID: env.food.ID, Quantity: 2, Portion: strPtr("small"), Price: decimal.RequireFromString("100.00")},
		{FoodID: env.food.ID, Quantity: 1, Portion: strPtr("small"), Price: decimal.RequireFromString("120.00")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected two price tiers to stay distinct, got %d lines", len(view.Items))
	}
	if !view.ItemTotal.Equal(decimal.RequireFromString("320.00")) {
		t.Fatalf("expected total 320.00, got %s", view.ItemTotal)
	}
}

func TestAddItemsMergesIntoExistingCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusInCart,
		Items: []models.CartItem{{
			FoodID:    env.food.ID,
			Name:      env.food.Name,
			Portion:   types.NamedPortion("large"),
			Quantity:  2,
			UnitPrice: env.food.Price,
		}},
	}

	view, err := env.svc.AddItems(context.Background(), env.user.ID, []ItemInput{
		{FoodID: env.food.ID, Quantity: 3, Portion: strPtr("large"), Price: env.food.Price},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected matching lines to merge, got %d lines", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Items[0].Quantity)
	}
}

func TestAddItemsUncataloguedFoodStillAdds(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	price := decimal.RequireFromString("7.25")

	view, err := env.svc.AddItems(context.Background(), env.user.ID, []ItemInput{
		{FoodID: uuid.New(), Quantity: 1, Price: price},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Items))
	}
	item := view.Items[0]
	if !item.UnitPrice.Equal(price) {
		t.Fatalf("expected caller price %s kept, got %s", price, item.UnitPrice)
	}
	if item.Food != nil {
		t.Fatalf("expected no catalog summary, got %+v", item.Food)
	}
}

func TestGetCartItemsWithoutActiveCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)

	view, err := env.svc.GetCartItems(context.Background(), env.user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID != nil {
		t.Fatalf("expected no cart id, got %v", view.ID)
	}
	if len(view.Items) != 0 || !view.ItemTotal.Equal(decimal.Zero) {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestEditItemWithoutActiveCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)

	_, err := env.svc.EditItem(context.Background(), env.user.ID, EditItemInput{
		FoodID:      env.food.ID,
		OldPrice:    env.food.Price,
		NewQuantity: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEditItemMissingLine(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusInCart,
		Items: []models.CartItem{{
			FoodID:    env.food.ID,
			Portion:   types.NamedPortion("large"),
			Quantity:  1,
			UnitPrice: env.food.Price,
		}},
	}

	_, err := env.svc.EditItem(context.Background(), env.user.ID, EditItemInput{
		FoodID:      env.food.ID,
		OldPortion:  types.NamedPortion("small"),
		OldPrice:    env.food.Price,
		NewQuantity: 1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEditItemCollapsesOnCollision(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusInCart,
		Items: []models.CartItem{
			{FoodID: env.food.ID, Portion: types.NamedPortion("small"), Quantity: 2, UnitPrice: decimal.RequireFromString("8.00")},
			{FoodID: env.food.ID, Portion: types.NamedPortion("large"), Quantity: 4, UnitPrice: decimal.RequireFromString("11.00")},
		},
	}

	large := types.NamedPortion("large")
	largePrice := decimal.RequireFromString("11.00")
	view, err := env.svc.EditItem(context.Background(), env.user.ID, EditItemInput{
		FoodID:      env.food.ID,
		OldPortion:  types.NamedPortion("small"),
		OldPrice:    decimal.RequireFromString("8.00"),
		NewQuantity: 3,
		NewPortion:  &large,
		NewPrice:    &largePrice,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected lines to collapse, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", view.Items[0].Quantity)
	}
	if !view.ItemTotal.Equal(decimal.RequireFromString("77.00")) {
		t.Fatalf("expected total 77.00, got %s", view.ItemTotal)
	}
}

func TestEditItemZeroQuantityRemovesLine(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusInCart,
		Items: []models.CartItem{{
			FoodID:    env.food.ID,
			Quantity:  2,
			UnitPrice: env.food.Price,
		}},
	}

	view, err := env.svc.EditItem(context.Background(), env.user.ID, EditItemInput{
		FoodID:      env.food.ID,
		OldPrice:    env.food.Price,
		NewQuantity: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Items))
	}
	if !view.ItemTotal.Equal(decimal.Zero) {
		t.Fatalf("expected zero total, got %s", view.ItemTotal)
	}
}

func TestSetCartStatusOrdersCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusInCart,
		Items: []models.CartItem{{
			FoodID:    env.food.ID,
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("4.50"),
		}},
	}

	view, err := env.svc.SetCartStatus(context.Background(), env.user.ID, enums.CartStatusOrdered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != enums.CartStatusOrdered {
		t.Fatalf("expected ordered status, got %s", view.Status)
	}
	if !view.ItemTotal.Equal(decimal.RequireFromString("9.00")) {
		t.Fatalf("expected total recomputed to 9.00, got %s", view.ItemTotal)
	}
}

func TestSetCartStatusOrdersEmptiedCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)

	_, err := env.svc.AddItems(context.Background(), env.user.ID, []ItemInput{
		{FoodID: env.food.ID, Quantity: 1, Price: env.food.Price},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err = env.svc.EditItem(context.Background(), env.user.ID, EditItemInput{
		FoodID:      env.food.ID,
		OldPrice:    env.food.Price,
		NewQuantity: 0,
	})
	if err != nil {
		t.Fatalf("edit to zero: %v", err)
	}

	// removing the last line leaves an empty in-cart cart; it still orders
	view, err := env.svc.SetCartStatus(context.Background(), env.user.ID, enums.CartStatusOrdered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != enums.CartStatusOrdered {
		t.Fatalf("expected ordered status, got %s", view.Status)
	}
	if len(view.Items) != 0 || !view.ItemTotal.Equal(decimal.Zero) {
		t.Fatalf("expected empty ordered cart, got %+v", view)
	}
}

func TestSetCartStatusWithoutActiveCart(t *testing.T) {
	t.Parallel()

	env := newCartTestEnv(t)
	// an ordered cart is history, not an active cart
	env.repo.record = &models.CartRecord{
		ID:     uuid.New(),
		UserID: env.user.ID,
		Status: enums.CartStatusOrdered,
		Items:  []models.CartItem{{FoodID: env.food.ID, Quantity: 1, UnitPrice: env.food.Price}},
	}

	_, err := env.svc.SetCartStatus(context.Background(), env.user.ID, enums.CartStatusInCart)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

type cartTestEnv struct {
	svc  Service
	repo *stubCartRepo
	user *models.User
	food *models.Food
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		Email:     "resident@example.com",
		FirstName: "Alex",
		LastName:  "Reyes",
		Role:      enums.UserRoleResident,
		IsActive:  true,
	}
	food := &models.Food{
		ID:          uuid.New(),
		Code:        "BEV-1",
		Name:        "Fresh Lemonade",
		Category:    "Beverages",
		Price:       decimal.RequireFromString("12.50"),
		IsAvailable: true,
	}

	repo := &stubCartRepo{}
	svc, err := NewService(repo, stubTxRunner{}, stubFoodLoader{food: food}, stubUserLoader{user: user})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &cartTestEnv{svc: svc, repo: repo, user: user, food: food}
}

func strPtr(s string) *string { return &s }

type stubCartRepo struct {
	record *models.CartRecord
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.record != nil && s.record.UserID == userID && s.record.Status == enums.CartStatusInCart {
		return s.record, nil
	}
	return nil, nil
}

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.record = record
	return record, nil
}

func (s *stubCartRepo) Update(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	s.record = record
	return record, nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	if s.record != nil && s.record.ID == cartID {
		s.record.Items = items
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubFoodLoader struct {
	food *models.Food
}

func (s stubFoodLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	if s.food != nil && s.food.ID == id {
		return s.food, nil
	}
	return nil, nil
}

type stubUserLoader struct {
	user *models.User
}

func (s stubUserLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}
