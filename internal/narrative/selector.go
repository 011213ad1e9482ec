package narrative

import (
	"math/rand/v2"
	"sync"
)

// Selector picks one of n phrase variants
type Selector interface {
	Choose(n int) int
}

// FirstSelector always picks the first variant, which keeps output stable
type FirstSelector struct{}

func (FirstSelector) Choose(int) int { return 0 }

type seededSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSelector returns a Selector whose choices are reproducible for a
// given seed. It is safe for concurrent use.
func NewSeededSelector(seed uint64) Selector {
	return &seededSelector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSelector) Choose(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// phrase lists interchangeable wordings of one sentence. Every variant takes
// the same arguments in the same order.
type phrase []string

var (
	phraseHighRiskAction = phrase{
		"Immediate attention required: %d high-risk findings need resolution",
		"%d high-risk findings need resolution before anything else",
	}
	phraseRedFlagAction = phrase{
		"Critical: %d red flags identified requiring urgent investigation",
		"%d red flags were raised and call for urgent investigation",
	}
	phraseGoodCompliance = phrase{
		"Good overall compliance rate of %s%%",
		"Overall compliance holds at a healthy %s%%",
	}
	phraseLowCompliance = phrase{
		"Low average compliance of %s%% requires immediate improvement plan",
		"Average compliance of %s%% is low and needs an improvement plan",
	}
	phraseOpenMultiTender = phrase{
		"%d findings (%.1f%%) remain open - require immediate attention",
		"%d findings (%.1f%%) are still open and need attention",
	}
	phraseStrongEntities = phrase{
		"Strong overall performance across entities: %s%% average",
		"Entities perform strongly with a %s%% average",
	}
	phraseWeakEntities = phrase{
		"Low average performance: %s%% - requires systemic improvement",
		"Average performance of %s%% points to a need for systemic improvement",
	}
)
