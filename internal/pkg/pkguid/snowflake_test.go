package pkguid

import (
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestRandomNodeIDRange(t *testing.T) {
	for n := 0; n < 50; n++ {
		id, err := randomNodeID()
		if err != nil {
			t.Fatalf("randomNodeID: %v", err)
		}
		if id < 0 || id > 1023 {
			t.Fatalf("expected id within 0..1023, got %d", id)
		}
	}
}

func TestBase58GenerateParses(t *testing.T) {
	gen, err := NewBase58()
	if err != nil {
		t.Fatalf("NewBase58: %v", err)
	}

	id := gen.Generate()
	parsed, err := snowflake.ParseBase58([]byte(id))
	if err != nil {
		t.Fatalf("expected base58 snowflake id, got %q: %v", id, err)
	}
	if parsed.Time() < epochMillis {
		t.Fatalf("expected timestamp after custom epoch, got %d", parsed.Time())
	}
}

func TestBase58GenerateUniqueAndOrdered(t *testing.T) {
	gen, err := NewBase58()
	if err != nil {
		t.Fatalf("NewBase58: %v", err)
	}

	seen := make(map[string]struct{}, 1000)
	var last int64
	for n := 0; n < 1000; n++ {
		id := gen.Generate()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}

		parsed, err := snowflake.ParseBase58([]byte(id))
		if err != nil {
			t.Fatalf("parse %q: %v", id, err)
		}
		if parsed.Int64() <= last {
			t.Fatalf("expected increasing ids")
		}
		last = parsed.Int64()
	}
}
