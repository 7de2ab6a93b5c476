package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewIDFormat(t *testing.T) {
	got, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	parsed, err := uuid.Parse(got)
	if err != nil {
		t.Fatalf("expected a parseable uuid, got %q: %v", got, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected uuid v4, got v%d", parsed.Version())
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 64 {
		got, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}
