package server

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// Scorer grades a practice attempt.
type Scorer interface {
	Score(req model.EvaluateRequest, audio []byte) model.ScoreResult
}

// RandomScorer produces mock scores in fixed ranges. It stands in for a real
// pronunciation model.
type RandomScorer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomScorer returns a scorer seeded with seed, or the current time when seed is 0.
func NewRandomScorer(seed int64) *RandomScorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomScorer{rnd: rand.New(rand.NewSource(seed))}
}

// Score implements Scorer.
func (s *RandomScorer) Score(_ model.EvaluateRequest, _ []byte) model.ScoreResult {
	s.mu.Lock()
	score := between(s.rnd, 70, 95)
	pronunciation := between(s.rnd, 65, 95)
	fluency := between(s.rnd, 70, 90)
	s.mu.Unlock()
	return model.ScoreResult{
		Success:            true,
		Score:              float64(score),
		PronunciationScore: float64(pronunciation),
		FluencyScore:       float64(fluency),
		Feedback:           fmt.Sprintf("Good overall. Pronunciation: %d, fluency: %d.", pronunciation, fluency),
	}
}

func between(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo+1)
}
