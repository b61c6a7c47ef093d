package villas

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
)

type villaRepo interface {
	Create(ctx context.Context, villa *models.Villa) (*models.Villa, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Villa, error)
	List(ctx context.Context) ([]models.Villa, error)
	CreateRoom(ctx context.Context, room *models.Room) (*models.Room, error)
	FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

// Service manages the villa directory and its rooms.
type Service interface {
	Create(ctx context.Context, input CreateVillaInput) (*models.Villa, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Villa, error)
	List(ctx context.Context) ([]models.Villa, error)
	AddRoom(ctx context.Context, villaID uuid.UUID, input CreateRoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

type service struct {
	repo villaRepo
}

func NewService(repo villaRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("villa repository required")
	}
	return &service{repo: repo}, nil
}

type CreateVillaInput struct {
	Name      string
	Address   string
	Amenities []string
}

type CreateRoomInput struct {
	Name  string
	Floor int
}

func (s *service) Create(ctx context.Context, input CreateVillaInput) (*models.Villa, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "villa name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "villa address is required")
	}

	villa, err := s.repo.Create(ctx, &models.Villa{
		Name:      name,
		Address:   strings.TrimSpace(input.Address),
		Amenities: pq.StringArray(input.Amenities),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create villa")
	}
	return villa, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Villa, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "villa id is required")
	}
	villa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load villa")
	}
	if villa == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "villa not found")
	}
	return villa, nil
}

func (s *service) List(ctx context.Context) ([]models.Villa, error) {
	villas, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list villas")
	}
	return villas, nil
}

func (s *service) AddRoom(ctx context.Context, villaID uuid.UUID, input CreateRoomInput) (*models.Room, error) {
	if villaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "villa id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room name is required")
	}

	villa, err := s.repo.FindByID(ctx, villaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load villa")
	}
	if villa == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "villa not found")
	}

	room, err := s.repo.CreateRoom(ctx, &models.Room{
		VillaID: villaID,
		Name:    name,
		Floor:   input.Floor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create room")
	}
	return room, nil
}

func (s *service) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	room, err := s.repo.FindRoomByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	if room == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
	}
	return room, nil
}
