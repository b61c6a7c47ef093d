package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
	"github.com/villaworks/villaserve-backend/pkg/pagination"
)

type orderRepo interface {
	ListOrderedByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.CartRecord, error)
}

// Service exposes a resident's order history.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error)
}

type service struct {
	repo orderRepo
}

func NewService(repo orderRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// OrderView is one finalized cart.
type OrderView struct {
	ID        uuid.UUID       `json:"id"`
	ItemTotal decimal.Decimal `json:"item_total"`
	Items     []OrderLineView `json:"items"`
	OrderedAt time.Time       `json:"ordered_at"`
}

// OrderLineView is one snapshotted line of a finalized cart.
type OrderLineView struct {
	FoodID    uuid.UUID       `json:"food_id"`
	Name      string          `json:"name"`
	Portion   *string         `json:"portion"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderPage is one page of order history.
type OrderPage struct {
	Orders     []OrderView `json:"orders"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	records, err := s.repo.ListOrderedByUser(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &OrderPage{Orders: make([]OrderView, 0, len(records))}
	for i, record := range records {
		if i == limit {
			last := records[limit-1]
			next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			page.NextCursor = &next
			break
		}
		page.Orders = append(page.Orders, toOrderView(record))
	}
	return page, nil
}

func toOrderView(record models.CartRecord) OrderView {
	view := OrderView{
		ID:        record.ID,
		ItemTotal: record.ItemTotal,
		Items:     make([]OrderLineView, 0, len(record.Items)),
		OrderedAt: record.UpdatedAt,
	}
	for _, item := range record.Items {
		view.Items = append(view.Items, OrderLineView{
			FoodID:    item.FoodID,
			Name:      item.Name,
			Portion:   item.Portion.Ptr(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return view
}
