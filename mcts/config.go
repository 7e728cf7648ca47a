package mcts

import (
	"math/rand"

	"github.com/damazero/engine/evaluator"
)

// SelectionMode picks the scoring formula select.go uses to descend
// the tree.
type SelectionMode int

const (
	UCB1 SelectionMode = iota
	UCB1Tuned
	PUCT
)

func (m SelectionMode) String() string {
	switch m {
	case UCB1:
		return "UCB1"
	case UCB1Tuned:
		return "UCB1-Tuned"
	case PUCT:
		return "PUCT"
	}
	return "UNKNOWN"
}

// Reward scalars. Every rollout/terminal evaluation returns a value
// on this scale from the perspective of the node's
// playerWhoJustMoved, before backpropagation flips perspective at
// each level.
const (
	WinScore  float32 = 1.0
	LossScore float32 = 0.0

	// MaxRolloutDepth is the hard cap on rollout plies regardless of
	// fast-rollout mode.
	MaxRolloutDepth = 200

	// weightDanger is the fixed penalty subtracted from a quiet move's
	// heuristic score when 1-ply lookahead finds the opponent has a
	// reply that captures.
	weightDanger float32 = 0.3

	// batchSize is the number of pending inference requests at which
	// the batcher runs a forward pass without waiting for its 1ms tick.
	batchSize = 32
)

// Config collects every independently-settable option the search
// orchestrator recognizes.
type Config struct {
	// Selection
	Selection          SelectionMode
	UCB1C              float32
	PUCTC              float32
	UseFPU             bool
	FPUValue           float32
	UseProgressiveBias bool
	BiasConstant       float32

	// Solver
	UseSolver bool

	// Rollout (used only when Evaluator == nil)
	RolloutEpsilon    float32
	UseLookahead      bool
	UseDecayingReward bool
	DecayFactor       float32
	UseFastRollout    bool
	FastRolloutDepth  int

	// Heuristic weights, shared with evaluator.HeuristicEvaluator so
	// the rollout's move ranking and a heuristic evaluator's policy
	// head agree.
	Weights evaluator.MoveWeights

	// Resources
	MaxNodes           uint32 // 0 = unlimited
	NumThreads         int    // 0 = sequential
	DrawScore          float32
	ExpansionThreshold int
	UseTreeReuse       bool
	UseTT              bool

	// Root exploration noise, mixed into the root's prior distribution
	// on its one full expansion (AlphaZero-style self-play exploration;
	// has no effect without an Evaluator, since only expandFull assigns
	// priors).
	UseDirichletNoise bool
	DirichletAlpha    float64
	DirichletEpsilon  float32

	// Evaluator is the optional policy-value network handle. Nil
	// means: no network, use the rollout simulator and pure UCB1/
	// UCB1-Tuned selection (PUCT with a nil evaluator falls back to a
	// uniform prior of 1.0 everywhere, per spec.md §7).
	Evaluator evaluator.Evaluator

	Verbose bool

	// Rand drives rollout move sampling and seeds the root Dirichlet
	// noise (selection ties are broken first-seen, without it). A
	// thread-local *rand.Rand per worker, seeded from this one's
	// output, is preferred for determinism under NumThreads==0 (spec
	// §9's "RNG for rollouts").
	Rand *rand.Rand
}

// IsValid reports whether cfg's numeric fields are within sane ranges,
// mirroring dualnet.Config.IsValid()'s role as a construction-time
// guard rather than a per-field runtime check.
func (c Config) IsValid() bool {
	return c.DrawScore >= 0 && c.DrawScore <= 1 &&
		c.RolloutEpsilon >= 0 && c.RolloutEpsilon <= 1 &&
		c.NumThreads >= 0 &&
		c.ExpansionThreshold >= 0 &&
		c.Rand != nil &&
		(!c.UseDirichletNoise || c.DirichletAlpha > 0)
}

// DefaultConfig is PureVanilla: every optional flag off, UCB1
// selection, no evaluator, single-threaded.
func DefaultConfig() Config {
	return Config{
		Selection:         UCB1,
		UCB1C:             1.4142135, // sqrt(2), the canonical UCB1 constant
		PUCTC:             1.5,
		FPUValue:          0.5,
		RolloutEpsilon:    0.2,
		DecayFactor:       0.99,
		FastRolloutDepth:  50,
		Weights:           evaluator.DefaultMoveWeights(),
		DrawScore:          0.5,
		ExpansionThreshold: 1,
		DirichletAlpha:     0.3,
		DirichletEpsilon:   0.25,
		Rand:               rand.New(rand.NewSource(1)),
	}
}
