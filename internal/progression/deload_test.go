package progression

import (
	"testing"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
)

func numberedSets(n int) []models.Set {
	sets := make([]models.Set, n)
	for i := range sets {
		sets[i] = models.Set{SetNumber: i + 1, Weight: 100}
	}
	return sets
}

// TestTakeDeloadTruncates verifies only sets at or below the reference number
// survive, and that dense numbering means exactly that many remain.
func TestTakeDeloadTruncates(t *testing.T) {
	kept, dropped := TakeDeload(numberedSets(4), 2)
	if len(kept) != 2 {
		t.Fatalf("kept %d sets, want 2", len(kept))
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped %d sets, want 2", len(dropped))
	}
	for _, s := range kept {
		if s.SetNumber > 2 {
			t.Errorf("kept set %d, want setNumber <= 2", s.SetNumber)
		}
	}
	for _, s := range dropped {
		if s.SetNumber <= 2 {
			t.Errorf("dropped set %d, want setNumber > 2", s.SetNumber)
		}
	}
}

// TestTakeDeloadKeepsAll verifies a reference at or past the last set drops
// nothing.
func TestTakeDeloadKeepsAll(t *testing.T) {
	kept, dropped := TakeDeload(numberedSets(3), 3)
	if len(kept) != 3 || len(dropped) != 0 {
		t.Errorf("kept %d, dropped %d, want 3, 0", len(kept), len(dropped))
	}
}

// TestTakeDeloadEmpty verifies an empty exercise deloads to nothing.
func TestTakeDeloadEmpty(t *testing.T) {
	kept, dropped := TakeDeload(nil, 2)
	if len(kept) != 0 || len(dropped) != 0 {
		t.Errorf("kept %d, dropped %d, want 0, 0", len(kept), len(dropped))
	}
}
