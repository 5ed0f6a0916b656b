package selection

import (
	"math/rand"
	"time"

	"exam-service/internal/models"
)

// Priority formula constants. Fail count and staleness are mixed without
// unit normalization; that matches the documented product behavior, though
// the units (unitless vs days) do not really line up.
const (
	FailCountWeight = 2.0
	DaysWeight      = 1.0

	// NeverAttemptedDays biases strongly toward unseen questions without
	// starving the rest of the pool.
	NeverAttemptedDays = 999

	// MinWeight keeps every question selectable regardless of priority.
	MinWeight = 0.1
)

// Sampler builds composition-constrained question lists using weighted
// random sampling without replacement. The random source is injected so
// selection is reproducible under a fixed seed.
type Sampler struct {
	rand *rand.Rand
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rand: rng}
}

// New returns a sampler backed by a time-seeded source, for production use.
func New() *Sampler {
	return NewSampler(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// PriorityWeight computes the selection weight for one pool entry at the
// given instant: fail_count*2 + days since last attempt, clamped to
// MinWeight. Higher weight = weaker or staler = more likely to be drawn.
func PriorityWeight(pq PooledQuestion, now time.Time) float64 {
	days := float64(NeverAttemptedDays)
	failCount := 0
	if pq.Stats != nil {
		failCount = pq.Stats.FailCount
		if pq.Stats.LastAttemptedAt != nil {
			days = now.Sub(*pq.Stats.LastAttemptedAt).Hours() / 24
			if days < 0 {
				days = 0
			}
			days = float64(int(days))
		}
	}

	priority := float64(failCount)*FailCountWeight + days*DaysWeight
	if priority < MinWeight {
		return MinWeight
	}
	return priority
}

// Select draws the requested number of distinct questions per category and
// concatenates the category blocks in models.CategoryOrder (GAT first,
// subject second). Within a block the order is the random draw order, not
// weight order, so high-priority questions are not clustered at the front.
//
// Pure function of the pool, the composition, "now" and the injected random
// source; it performs no I/O and reads no clock.
func (s *Sampler) Select(pool []PooledQuestion, comp models.Composition, now time.Time) ([]string, error) {
	buckets := make(map[models.Category][]PooledQuestion)
	for _, pq := range pool {
		buckets[pq.Question.Category] = append(buckets[pq.Question.Category], pq)
	}

	// Every requested category must be satisfiable before anything is drawn.
	for _, cat := range models.CategoryOrder {
		want := comp[cat]
		if want > 0 && len(buckets[cat]) < want {
			return nil, &InsufficientPoolError{Category: cat, Requested: want, Available: len(buckets[cat])}
		}
	}
	for cat, want := range comp {
		if !knownCategory(cat) && want > 0 {
			return nil, &InsufficientPoolError{Category: cat, Requested: want, Available: 0}
		}
	}

	var selected []string
	for _, cat := range models.CategoryOrder {
		want := comp[cat]
		if want == 0 {
			continue
		}
		for _, pq := range s.weightedSample(buckets[cat], want, now) {
			selected = append(selected, pq.Question.ID)
		}
	}
	return selected, nil
}

// weightedSample draws size entries without replacement. Each round picks a
// point on the cumulative weight line and removes the hit from the running
// pool, so the result order is itself random.
func (s *Sampler) weightedSample(pool []PooledQuestion, size int, now time.Time) []PooledQuestion {
	remaining := make([]PooledQuestion, len(pool))
	copy(remaining, pool)

	weights := make([]float64, len(remaining))
	totalWeight := 0.0
	for i, pq := range remaining {
		weights[i] = PriorityWeight(pq, now)
		totalWeight += weights[i]
	}

	selected := make([]PooledQuestion, 0, size)
	for len(selected) < size && len(remaining) > 0 {
		r := s.rand.Float64() * totalWeight
		cumulative := 0.0
		idx := len(remaining) - 1
		for i, w := range weights {
			cumulative += w
			if r <= cumulative {
				idx = i
				break
			}
		}

		selected = append(selected, remaining[idx])
		totalWeight -= weights[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return selected
}

func knownCategory(cat models.Category) bool {
	for _, c := range models.CategoryOrder {
		if c == cat {
			return true
		}
	}
	return false
}
