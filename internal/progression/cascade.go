package progression

import "github.com/JohnZolton/lyfter-sub000/internal/models"

// Cascade writes newWeight onto sets[editedIndex] and forward onto every
// later set whose reps are still pending. Sets with logged reps are history
// and are never touched. Returns a new slice; the input is not modified.
//
// Applying the same edit twice yields the same result as applying it once.
func Cascade(sets []models.Set, editedIndex int, newWeight int) []models.Set {
	out := make([]models.Set, len(sets))
	for i := range sets {
		out[i] = sets[i].Clone()
	}
	if editedIndex < 0 || editedIndex >= len(out) {
		return out
	}

	out[editedIndex].Weight = newWeight
	for i := editedIndex + 1; i < len(out); i++ {
		if out[i].Pending() {
			out[i].Weight = newWeight
		}
	}
	return out
}
