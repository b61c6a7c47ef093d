package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/types"
)

// errLineNotFound signals that no cart line matches the requested merge key.
var errLineNotFound = errors.New("cart line not found")

// lineKey identifies a unique cart line: same food, same normalized portion,
// same snapshotted unit price. Lines sharing a key are one logical entry.
type lineKey struct {
	foodID  uuid.UUID
	portion types.Portion
	price   decimal.Decimal
}

func (k lineKey) matches(item models.CartItem) bool {
	return item.FoodID == k.foodID &&
		item.Portion.Key() == k.portion.Key() &&
		item.UnitPrice.Equal(k.price)
}

func (k lineKey) equal(other lineKey) bool {
	return k.foodID == other.foodID &&
		k.portion.Key() == other.portion.Key() &&
		k.price.Equal(other.price)
}

func findLine(items []models.CartItem, key lineKey) int {
	for i := range items {
		if key.matches(items[i]) {
			return i
		}
	}
	return -1
}

// mergeIncoming folds incoming lines into the existing ones in input order.
// An incoming line matching an existing key adds its quantity to that line;
// otherwise it is appended. Multiple incoming lines with the same key all
// accumulate into one entry, so the result never holds duplicate keys.
func mergeIncoming(existing, incoming []models.CartItem) []models.CartItem {
	items := cloneItems(existing)
	for _, in := range incoming {
		key := lineKey{foodID: in.FoodID, portion: in.Portion, price: in.UnitPrice}
		if idx := findLine(items, key); idx >= 0 {
			items[idx].Quantity += in.Quantity
			continue
		}
		items = append(items, in)
	}
	renumber(items)
	return items
}

// resolveEdit computes the next item slice for an edit without mutating the
// input. The target line is located by oldKey; a changed key that collides
// with another line collapses the two (quantities summed, target dropped),
// restoring key uniqueness. newQuantity <= 0 always removes the target line
// and touches nothing else.
func resolveEdit(items []models.CartItem, oldKey, newKey lineKey, newQuantity int) ([]models.CartItem, error) {
	next := cloneItems(items)

	target := findLine(next, oldKey)
	if target < 0 {
		return nil, errLineNotFound
	}

	switch {
	case newQuantity <= 0:
		next = removeLine(next, target)

	case newKey.equal(oldKey):
		next[target].Quantity = newQuantity

	default:
		if other := findLineExcluding(next, newKey, target); other >= 0 {
			next[other].Quantity += newQuantity
			next = removeLine(next, target)
		} else {
			next[target].Portion = newKey.portion
			next[target].UnitPrice = newKey.price
			next[target].Quantity = newQuantity
		}
	}

	renumber(next)
	return next, nil
}

func findLineExcluding(items []models.CartItem, key lineKey, exclude int) int {
	for i := range items {
		if i == exclude {
			continue
		}
		if key.matches(items[i]) {
			return i
		}
	}
	return -1
}

func removeLine(items []models.CartItem, idx int) []models.CartItem {
	return append(items[:idx], items[idx+1:]...)
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

// renumber reassigns positions so persisted ordering matches slice order.
func renumber(items []models.CartItem) {
	for i := range items {
		items[i].Position = i
	}
}

// itemTotal sums price x quantity over all lines.
func itemTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return total
}
