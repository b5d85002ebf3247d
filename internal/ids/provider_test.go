package ids

import (
	"sort"
	"testing"
)

func TestNewIDReturnsUniqueSortableIdentifiers(t *testing.T) {
	provider := NewUUIDProvider()

	generated := make([]string, 0, 100)
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id, err := provider.NewID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id == "" {
			t.Fatalf("empty id at %d", i)
		}
		if _, duplicate := seen[id]; duplicate {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		generated = append(generated, id)
	}

	// Time-ordered identifiers sort lexicographically in generation order,
	// which the display-order tie-break relies on.
	if !sort.StringsAreSorted(generated) {
		t.Fatalf("expected generation-ordered identifiers")
	}
}
