// Package evaluator defines the policy-value evaluator collaborator
// contract spec.md §6 requires of the core (forward_with_history,
// forward_batch) and provides two reference implementations used by
// tests and by the non-neural presets: a heuristic evaluator (no
// network at all) and a batch-size-recording mock for exercising the
// orchestrator's inference-batching liveness property. Training and
// persisting an actual neural network is explicitly out of scope for
// the core (spec.md §1); see DESIGN.md for the teacher dependencies
// (gorgonia, dualnet) dropped because of that.
package evaluator

import "github.com/damazero/engine/board"

// PolicySize is the dense policy vector's fixed width: one entry per
// (from-square, to-square) pair the action-indexing scheme in
// spec.md §6 can address. board.NumSquares*board.NumSquares covers
// every simple move and every capture's (from, final-to) pair.
const PolicySize = board.NumSquares * board.NumSquares

// Output is a single position's policy-value evaluation.
type Output struct {
	Policy [PolicySize]float32
	Value  float32 // in [-1, 1], from the side-to-move's perspective
}

// Evaluator is the policy-value network collaborator contract. An
// implementation is free to be a trained neural network, a handcrafted
// heuristic, or (in tests) a recording stub — the core only ever calls
// through this interface.
type Evaluator interface {
	// ForwardWithHistory evaluates pos, optionally conditioned on the
	// two preceding positions (hist1 is one ply back, hist2 two plies
	// back; either may be the zero value when history is unavailable,
	// e.g. near the root).
	ForwardWithHistory(pos, hist1, hist2 board.Position) (Output, error)
	// ForwardBatch evaluates every position in positions in one pass,
	// writing results into outputs (len(outputs) == len(positions)).
	// hist1/hist2 parallel positions, one entry per request.
	ForwardBatch(positions, hist1, hist2 []board.Position, outputs []Output) error
}

// ActionIndex maps a move to its policy-vector index, fulfilling
// spec.md §6's move_to_action_index contract, or -1 if unmappable
// (which cannot happen for any move board.GenerateMoves produces,
// since every move's (From, To) pair lies within PolicySize).
func ActionIndex(m board.Move, _ board.Color) int {
	if m.IsZero() {
		return -1
	}
	return int(m.From())*board.NumSquares + int(m.To())
}
