package mcts

import (
	"github.com/chewxy/math32"
	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
)

// GetPolicy implements spec.md §4.8's get_policy(root, temperature,
// position): the root's visit-count distribution over its children's
// action indices, at temperature τ. position supplies the side to move
// for action indexing.
func GetPolicy(root *Node, temperature float32, position board.Position) [evaluator.PolicySize]float32 {
	var out [evaluator.PolicySize]float32
	children := root.Children()
	if len(children) == 0 || root.Visits() < 1 {
		return out
	}
	side := position.SideToMove()

	if temperature < 1e-3 {
		best := children[0]
		for _, c := range children[1:] {
			if c.Visits() > best.Visits() {
				best = c
			}
		}
		idx := evaluator.ActionIndex(best.MoveFromParent(), side)
		if idx >= 0 {
			out[idx] = 1
		}
		return out
	}

	weights := make([]float32, len(children))
	var sum float32
	invTau := 1 / temperature
	for i, c := range children {
		w := math32.Pow(float32(c.Visits()), invTau)
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		return out
	}
	for i, c := range children {
		idx := evaluator.ActionIndex(c.MoveFromParent(), side)
		if idx >= 0 {
			out[idx] = weights[i] / sum
		}
	}
	return out
}
