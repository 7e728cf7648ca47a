package evaluator

import (
	"github.com/chewxy/math32"
	"github.com/damazero/engine/board"
)

// HeuristicEvaluator is a handcrafted policy-value evaluator with no
// trained network behind it: the value head is a squashed material
// difference and the policy head scores each legal move with the same
// capture/advancement heuristic the rollout simulator uses, then
// softmaxes it. It exists so presets that configure an evaluator can
// be exercised (and their PUCT/progressive-bias code paths tested)
// without depending on a trained model, and is the natural default for
// the Grandmaster/AlphaZero presets in a test environment.
type HeuristicEvaluator struct {
	Weights MoveWeights
}

// MoveWeights are the heuristic weights spec.md §6 lists under
// "Heuristic weights", shared between the rollout simulator and this
// evaluator's policy head so both rank moves consistently.
type MoveWeights struct {
	Capture      float32
	Promotion    float32
	Advance      float32
	Center       float32
	Edge         float32
	Base         float32
	Threat       float32
	LadyActivity float32
}

// DefaultMoveWeights mirrors commonly used draughts evaluation
// weights, scaled so capture dominates and the rest provide a gentle
// ranking.
func DefaultMoveWeights() MoveWeights {
	return MoveWeights{
		Capture:      1.0,
		Promotion:    0.5,
		Advance:      0.05,
		Center:       0.03,
		Edge:         0.02,
		Base:         0.04,
		Threat:       0.4,
		LadyActivity: 0.1,
	}
}

func NewHeuristicEvaluator() *HeuristicEvaluator {
	return &HeuristicEvaluator{Weights: DefaultMoveWeights()}
}

func (h *HeuristicEvaluator) ForwardWithHistory(pos, _, _ board.Position) (Output, error) {
	return h.evaluate(pos), nil
}

func (h *HeuristicEvaluator) ForwardBatch(positions, hist1, hist2 []board.Position, outputs []Output) error {
	for i, pos := range positions {
		outputs[i] = h.evaluate(pos)
	}
	return nil
}

func (h *HeuristicEvaluator) evaluate(pos board.Position) Output {
	var out Output
	me := pos.SideToMove()
	diff := pos.MaterialDiff(me)
	// squash material difference into [-1, 1]
	out.Value = diff / (math32.Abs(diff) + 4)

	moves := pos.GenerateMoves()
	if len(moves) == 0 {
		return out
	}
	scores := make([]float32, len(moves))
	var maxScore float32 = math32.Inf(-1)
	for i, m := range moves {
		s := MoveHeuristic(pos, m, h.Weights)
		scores[i] = s
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float32
	exps := make([]float32, len(moves))
	for i, s := range scores {
		e := math32.Exp(s - maxScore)
		exps[i] = e
		sum += e
	}
	for i, m := range moves {
		idx := ActionIndex(m, me)
		if idx < 0 {
			continue
		}
		out.Policy[idx] = exps[i] / sum
	}
	return out
}

// MoveHeuristic scores a single move the way spec.md §4.5 describes
// for the rollout simulator's move ranking, shared here so the
// evaluator's policy head and the rollout's heuristic-best-move choice
// use one formula.
func MoveHeuristic(pos board.Position, m board.Move, w MoveWeights) float32 {
	color := pos.SideToMove()
	var score float32
	score += w.Capture * float32(m.NumCapture)
	score += w.Advance * float32(board.AdvanceDistance(m, color))
	if m.Promotes {
		score += w.Promotion
	}
	if m.IsLadyMove {
		score += w.LadyActivity
	}
	if isCenterSquare(int(m.To())) {
		score += w.Center
	}
	if isEdgeSquare(int(m.To())) {
		score += w.Edge
	}
	fromRow, _ := board.RowCol(m.From())
	if fromRow == board.StartRow(color) {
		score -= w.Base
	}
	if w.Threat != 0 {
		next := pos.ApplyMove(m)
		if next.IsSquareThreatened(int(m.To()), color.Opponent()) {
			score -= w.Threat
		}
	}
	return score
}

func isCenterSquare(sq int) bool {
	switch sq {
	case 13, 14, 17, 18:
		return true
	}
	return false
}

func isEdgeSquare(sq int) bool {
	switch sq {
	case 3, 4, 11, 12, 19, 20, 27, 28:
		return true
	}
	return false
}
