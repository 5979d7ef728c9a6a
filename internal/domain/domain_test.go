package domain

import "testing"

func TestContextKeyCaseInsensitiveID(t *testing.T) {
	a := NewContextKey(ObjectClaim, "s-2001")
	b := NewContextKey(ObjectClaim, "S-2001")
	if a != b {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a.String() != "CLAIM:S-2001" {
		t.Fatalf("unexpected key string %q", a.String())
	}
}

func TestContextKeyTypeSensitive(t *testing.T) {
	claim := NewContextKey(ObjectClaim, "S-2001")
	contract := NewContextKey(ObjectContract, "S-2001")
	if claim == contract {
		t.Fatalf("claim and contract keys must differ for the same id")
	}
}

func TestParseContextKeyRoundTrip(t *testing.T) {
	key := NewContextKey(ObjectContract, "v-1001")
	parsed, err := ParseContextKey(key.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != key {
		t.Fatalf("round trip mismatch: %v != %v", parsed, key)
	}
	if _, err := ParseContextKey("no-separator"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
	if _, err := ParseContextKey("INVOICE:X-1"); err == nil {
		t.Fatalf("expected error for unknown object type")
	}
}

func TestParseEnums(t *testing.T) {
	if s, err := ParseStatus("in_progress"); err != nil || s != StatusInProgress {
		t.Fatalf("status: %v %v", s, err)
	}
	if _, err := ParseStatus("PENDING"); err == nil {
		t.Fatalf("expected unknown status error")
	}
	if b, err := ParseBasketScope("team"); err != nil || b != BasketTeam {
		t.Fatalf("basket: %v %v", b, err)
	}
	if _, err := ParseBasketScope("ALL"); err == nil {
		t.Fatalf("expected unknown basket error")
	}
	if o, err := ParseObjectType("claim"); err != nil || o != ObjectClaim {
		t.Fatalf("object type: %v %v", o, err)
	}
	if _, err := ParseObjectType("INVOICE"); err == nil {
		t.Fatalf("expected unknown object type error")
	}
}
