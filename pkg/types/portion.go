package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Portion distinguishes "no portion" from a named portion size ("Small",
// "Large", ...). The zero value is the absent portion. Only Key collapses the
// two shapes, so a line without a portion and one named "" merge the same way
// while everything else keeps them distinct.
type Portion struct {
	name  string
	named bool
}

// NamedPortion builds a portion carrying the provided label.
func NamedPortion(name string) Portion {
	return Portion{name: name, named: true}
}

// PortionFromPtr maps an optional request field onto a Portion.
func PortionFromPtr(name *string) Portion {
	if name == nil {
		return Portion{}
	}
	return NamedPortion(strings.TrimSpace(*name))
}

// Named reports whether a label is present.
func (p Portion) Named() bool {
	return p.named
}

// Name returns the label, empty when absent.
func (p Portion) Name() string {
	return p.name
}

// Key returns the merge-comparison form: the empty-string sentinel for an
// absent portion, the label otherwise.
func (p Portion) Key() string {
	if !p.named {
		return ""
	}
	return p.name
}

// Ptr returns the label as an optional field for responses.
func (p Portion) Ptr() *string {
	if !p.named {
		return nil
	}
	name := p.name
	return &name
}

// Value implements driver.Valuer; absent portions persist as NULL.
func (p Portion) Value() (driver.Value, error) {
	if !p.named {
		return nil, nil
	}
	return p.name, nil
}

// Scan implements sql.Scanner.
func (p *Portion) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Portion{}
		return nil
	case string:
		*p = NamedPortion(v)
		return nil
	case []byte:
		*p = NamedPortion(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Portion", src)
	}
}

// MarshalJSON encodes absent portions as null.
func (p Portion) MarshalJSON() ([]byte, error) {
	if !p.named {
		return []byte("null"), nil
	}
	return json.Marshal(p.name)
}

// UnmarshalJSON decodes null as the absent portion.
func (p *Portion) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Portion{}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*p = NamedPortion(name)
	return nil
}
