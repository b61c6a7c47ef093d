package equipment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
)

type equipmentRepo interface {
	Create(ctx context.Context, item *models.Equipment) (*models.Equipment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Equipment, error)
	UpdateState(ctx context.Context, id uuid.UUID, state enums.EquipmentState) error
}

type roomLoader interface {
	FindRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

// Service manages room equipment and its toggled state.
type Service interface {
	Register(ctx context.Context, roomID uuid.UUID, input RegisterInput) (*models.Equipment, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Equipment, error)
	SetState(ctx context.Context, id uuid.UUID, state enums.EquipmentState) (*models.Equipment, error)
}

type service struct {
	repo  equipmentRepo
	rooms roomLoader
}

func NewService(repo equipmentRepo, rooms roomLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("equipment repository required")
	}
	if rooms == nil {
		return nil, fmt.Errorf("room loader required")
	}
	return &service{repo: repo, rooms: rooms}, nil
}

type RegisterInput struct {
	Kind enums.EquipmentKind
	Name string
}

// Register installs a device in a room. It starts in the kind's default
// state: lights and AC off, doors closed.
func (s *service) Register(ctx context.Context, roomID uuid.UUID, input RegisterInput) (*models.Equipment, error) {
	if roomID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid equipment kind")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment name is required")
	}

	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	if room == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
	}

	item, err := s.repo.Create(ctx, &models.Equipment{
		RoomID: roomID,
		Kind:   input.Kind,
		Name:   name,
		State:  input.Kind.DefaultState(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create equipment")
	}
	return item, nil
}

func (s *service) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Equipment, error) {
	if roomID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id is required")
	}
	room, err := s.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	if room == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
	}

	items, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}
	return items, nil
}

// SetState toggles a device. The state must fit the kind: on/off for lights
// and AC, open/closed for doors.
func (s *service) SetState(ctx context.Context, id uuid.UUID, state enums.EquipmentState) (*models.Equipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id is required")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
	}
	if !item.Kind.AllowsState(state) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state "+state.String()+" does not apply to "+item.Kind.String()).
			WithDetails(map[string]any{"kind": item.Kind, "state": state})
	}

	if err := s.repo.UpdateState(ctx, id, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update equipment state")
	}
	item.State = state
	return item, nil
}
