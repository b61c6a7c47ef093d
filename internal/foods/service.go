package foods

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db"
	"github.com/villaworks/villaserve-backend/pkg/db/models"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
)

// FoodRepository exposes catalog persistence operations.
type FoodRepository interface {
	WithTx(tx *gorm.DB) FoodRepository
	Create(ctx context.Context, food *models.Food) (*models.Food, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error)
	List(ctx context.Context, category string, availableOnly bool) ([]models.Food, error)
	MaxCodeNumber(ctx context.Context, prefix string) (int, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Food, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the food catalog.
type Service interface {
	Create(ctx context.Context, input CreateFoodInput) (*models.Food, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Food, error)
	List(ctx context.Context, category string, availableOnly bool) ([]models.Food, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateFoodInput) (*models.Food, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo FoodRepository
	tx   txRunner
}

func NewService(repo FoodRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("food repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

type CreateFoodInput struct {
	Name        string
	Category    string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
}

// UpdateFoodInput carries a partial catalog update. Code and category are
// fixed at creation; nil fields are left untouched.
type UpdateFoodInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	IsAvailable *bool
}

// codePrefix derives the catalog code prefix from a category: the first three
// letters, uppercased ("Beverages" -> "BEV"). Shorter categories use what
// they have.
func codePrefix(category string) string {
	var letters []rune
	for _, r := range category {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	return string(letters)
}

// Create inserts a catalog entry with a generated code. The counter scan and
// the insert share a transaction so concurrent creates cannot mint the same
// code; the unique index on code backstops it.
func (s *service) Create(ctx context.Context, input CreateFoodInput) (*models.Food, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food name is required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food category is required")
	}
	prefix := codePrefix(category)
	if prefix == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food category must contain letters")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	var created *models.Food
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		max, err := txRepo.MaxCodeNumber(ctx, prefix)
		if err != nil {
			return err
		}

		created, err = txRepo.Create(ctx, &models.Food{
			Code:        prefix + "-" + strconv.Itoa(max+1),
			Name:        name,
			Category:    category,
			Description: input.Description,
			Price:       input.Price,
			ImageURL:    input.ImageURL,
			IsAvailable: true,
		})
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "food code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	food, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	if food == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
	}
	return food, nil
}

func (s *service) List(ctx context.Context, category string, availableOnly bool) ([]models.Food, error) {
	foods, err := s.repo.List(ctx, strings.TrimSpace(category), availableOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list foods")
	}
	return foods, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateFoodInput) (*models.Food, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "food name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		fields["price"] = *input.Price
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}
	if input.IsAvailable != nil {
		fields["is_available"] = *input.IsAvailable
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food")
	}
	return updated, nil
}

// Delete removes a catalog entry. Existing cart lines keep their name and
// price snapshots, so history survives the removal.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food")
	}
	if existing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "food not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete food")
	}
	return nil
}
