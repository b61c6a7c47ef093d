package enums

import "fmt"

// EquipmentKind enumerates the room hardware the platform manages.
type EquipmentKind string

const (
	EquipmentKindLight EquipmentKind = "light"
	EquipmentKindAC    EquipmentKind = "ac"
	EquipmentKindDoor  EquipmentKind = "door"
)

var validEquipmentKinds = []EquipmentKind{
	EquipmentKindLight,
	EquipmentKindAC,
	EquipmentKindDoor,
}

// EquipmentState is the toggled position of a piece of equipment.
type EquipmentState string

const (
	EquipmentStateOn     EquipmentState = "on"
	EquipmentStateOff    EquipmentState = "off"
	EquipmentStateOpen   EquipmentState = "open"
	EquipmentStateClosed EquipmentState = "closed"
)

func (k EquipmentKind) String() string {
	return string(k)
}

func (k EquipmentKind) IsValid() bool {
	for _, candidate := range validEquipmentKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// AllowsState reports whether the state applies to the kind: lights and AC
// units switch on/off, doors open/close.
func (k EquipmentKind) AllowsState(s EquipmentState) bool {
	switch k {
	case EquipmentKindLight, EquipmentKindAC:
		return s == EquipmentStateOn || s == EquipmentStateOff
	case EquipmentKindDoor:
		return s == EquipmentStateOpen || s == EquipmentStateClosed
	default:
		return false
	}
}

// DefaultState is the state a freshly registered piece of equipment starts in.
func (k EquipmentKind) DefaultState() EquipmentState {
	if k == EquipmentKindDoor {
		return EquipmentStateClosed
	}
	return EquipmentStateOff
}

func ParseEquipmentKind(value string) (EquipmentKind, error) {
	for _, candidate := range validEquipmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment kind %q", value)
}

func (s EquipmentState) String() string {
	return string(s)
}

func ParseEquipmentState(value string) (EquipmentState, error) {
	switch EquipmentState(value) {
	case EquipmentStateOn, EquipmentStateOff, EquipmentStateOpen, EquipmentStateClosed:
		return EquipmentState(value), nil
	}
	return "", fmt.Errorf("invalid equipment state %q", value)
}
