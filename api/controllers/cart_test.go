package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/api/middleware"
	cartsvc "github.com/villaworks/villaserve-backend/internal/cart"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
)

type stubCartService struct {
	view *cartsvc.CartView
	err  error

	lastAddItems []cartsvc.ItemInput
	lastEdit     cartsvc.EditItemInput
	lastStatus   enums.CartStatus
}

func (s *stubCartService) AddItems(ctx context.Context, userID uuid.UUID, items []cartsvc.ItemInput) (*cartsvc.CartView, error) {
	s.lastAddItems = items
	return s.view, s.err
}

func (s *stubCartService) GetCartItems(ctx context.Context, userID uuid.UUID) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) EditItem(ctx context.Context, userID uuid.UUID, input cartsvc.EditItemInput) (*cartsvc.CartView, error) {
	s.lastEdit = input
	return s.view, s.err
}

func (s *stubCartService) SetCartStatus(ctx context.Context, userID uuid.UUID, status enums.CartStatus) (*cartsvc.CartView, error) {
	s.lastStatus = status
	return s.view, s.err
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartAddItemsSuccess(t *testing.T) {
	cartID := uuid.New()
	svc := &stubCartService{view: &cartsvc.CartView{
		ID:        &cartID,
		Status:    enums.CartStatusInCart,
		ItemTotal: decimal.RequireFromString("25.00"),
	}}
	handler := CartAddItems(svc, nil)

	foodID := uuid.New()
	body := `{"items":[{"food_id":"` + foodID.String() + `","quantity":2,"portion":"large","price":"12.50"}]}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lastAddItems) != 1 {
		t.Fatalf("expected 1 item forwarded, got %d", len(svc.lastAddItems))
	}
	item := svc.lastAddItems[0]
	if item.FoodID != foodID || item.Quantity != 2 || item.Portion == nil || *item.Portion != "large" {
		t.Fatalf("unexpected forwarded item: %+v", item)
	}
	if !item.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected caller price forwarded, got %s", item.Price)
	}

	var envelope struct {
		Data cartsvc.CartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID == nil || *envelope.Data.ID != cartID {
		t.Fatalf("unexpected cart id in response: %+v", envelope.Data.ID)
	}
}

func TestCartAddItemsMissingAuth(t *testing.T) {
	handler := CartAddItems(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"items":[]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemsValidatesBody(t *testing.T) {
	handler := CartAddItems(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"items":[]}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartEditItemPortionTriState(t *testing.T) {
	foodID := uuid.New()

	cases := []struct {
		name string
		body string
		want func(t *testing.T, input cartsvc.EditItemInput)
	}{
		{
			name: "absent portion leaves identity alone",
			body: `{"food_id":"` + foodID.String() + `","old_price":"12.50","new_quantity":3}`,
			want: func(t *testing.T, input cartsvc.EditItemInput) {
				if input.NewPortion != nil {
					t.Fatalf("expected nil NewPortion, got %v", input.NewPortion)
				}
			},
		},
		{
			name: "null portion clears it",
			body: `{"food_id":"` + foodID.String() + `","old_portion":"large","old_price":"12.50","new_quantity":3,"new_portion":null}`,
			want: func(t *testing.T, input cartsvc.EditItemInput) {
				if input.NewPortion == nil {
					t.Fatal("expected NewPortion to be set")
				}
				if input.NewPortion.Named() {
					t.Fatalf("expected cleared portion, got %q", input.NewPortion.Name())
				}
			},
		},
		{
			name: "string portion sets it",
			body: `{"food_id":"` + foodID.String() + `","old_price":"12.50","new_quantity":3,"new_portion":"small"}`,
			want: func(t *testing.T, input cartsvc.EditItemInput) {
				if input.NewPortion == nil || input.NewPortion.Name() != "small" {
					t.Fatalf("expected portion small, got %v", input.NewPortion)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCartService{view: &cartsvc.CartView{Status: enums.CartStatusInCart}}
			handler := CartEditItem(svc, nil)

			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, authedRequest(http.MethodPatch, "/api/v1/cart/items", tc.body))

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
			}
			if svc.lastEdit.FoodID != foodID {
				t.Fatalf("unexpected food id: %s", svc.lastEdit.FoodID)
			}
			tc.want(t, svc.lastEdit)
		})
	}
}

func TestCartEditItemMissingLine(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}
	handler := CartEditItem(svc, nil)

	foodID := uuid.New()
	body := `{"food_id":"` + foodID.String() + `","old_price":"5.00","new_quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPatch, "/api/v1/cart/items", body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartSetStatus(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.CartView{Status: enums.CartStatusOrdered}}
	handler := CartSetStatus(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/status", `{"status":"ordered"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus != enums.CartStatusOrdered {
		t.Fatalf("unexpected status forwarded: %s", svc.lastStatus)
	}
}

func TestCartSetStatusRejectsUnknownValue(t *testing.T) {
	handler := CartSetStatus(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/status", `{"status":"shipped"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
