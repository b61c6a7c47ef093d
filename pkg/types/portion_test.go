package types

import (
	"encoding/json"
	"testing"
)

func TestPortionKeyNormalization(t *testing.T) {
	t.Parallel()

	if key := (Portion{}).Key(); key != "" {
		t.Fatalf("absent portion key should be empty, got %q", key)
	}
	if key := NamedPortion("Small").Key(); key != "Small" {
		t.Fatalf("unexpected key %q", key)
	}
	// A portion explicitly named "" compares equal to the absent portion.
	if NamedPortion("").Key() != (Portion{}).Key() {
		t.Fatal("empty-named portion must normalize to the absent sentinel")
	}
}

func TestPortionFromPtr(t *testing.T) {
	t.Parallel()

	if PortionFromPtr(nil).Named() {
		t.Fatal("nil pointer should map to absent portion")
	}

	small := " Small "
	p := PortionFromPtr(&small)
	if !p.Named() || p.Name() != "Small" {
		t.Fatalf("expected trimmed named portion, got %+v", p)
	}
}

func TestPortionSQLRoundTrip(t *testing.T) {
	t.Parallel()

	val, err := NamedPortion("Large").Value()
	if err != nil || val != "Large" {
		t.Fatalf("unexpected value %v, err %v", val, err)
	}

	val, err = (Portion{}).Value()
	if err != nil || val != nil {
		t.Fatalf("absent portion should persist NULL, got %v", val)
	}

	var p Portion
	if err := p.Scan("Medium"); err != nil || p.Name() != "Medium" {
		t.Fatalf("scan string failed: %v %+v", err, p)
	}
	if err := p.Scan(nil); err != nil || p.Named() {
		t.Fatalf("scan nil should reset portion: %v %+v", err, p)
	}
}

func TestPortionJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(NamedPortion("Small"))
	if err != nil || string(out) != `"Small"` {
		t.Fatalf("unexpected json %s, err %v", out, err)
	}

	out, err = json.Marshal(Portion{})
	if err != nil || string(out) != "null" {
		t.Fatalf("absent portion should encode null, got %s", out)
	}

	var p Portion
	if err := json.Unmarshal([]byte("null"), &p); err != nil || p.Named() {
		t.Fatalf("null should decode to absent portion: %v %+v", err, p)
	}
	if err := json.Unmarshal([]byte(`"Large"`), &p); err != nil || p.Name() != "Large" {
		t.Fatalf("decode named portion failed: %v %+v", err, p)
	}
}
