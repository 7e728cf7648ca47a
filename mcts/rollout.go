package mcts

import (
	"github.com/chewxy/math32"
	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
)

// RolloutValue runs the bounded epsilon-greedy playout of spec.md
// §4.5, used only when no evaluator is configured. It returns a
// scalar in [0, 1] from the perspective of justMoved (the player who
// played the move that reached pos).
func RolloutValue(pos board.Position, justMoved board.Color, cfg Config) float32 {
	maxDepth := MaxRolloutDepth
	if cfg.UseFastRollout && cfg.FastRolloutDepth > 0 && cfg.FastRolloutDepth < maxDepth {
		maxDepth = cfg.FastRolloutDepth
	}

	cur := pos
	for depth := 0; depth < maxDepth; depth++ {
		ended, _, isDraw := cur.Ended()
		if ended {
			if isDraw {
				return cfg.DrawScore
			}
			// the side to move has no legal moves and loses.
			if cur.SideToMove() == justMoved.Opponent() {
				win := WinScore
				if cfg.UseDecayingReward {
					win *= math32.Pow(cfg.DecayFactor, float32(depth))
				}
				return win
			}
			return LossScore
		}

		if cfg.UseFastRollout && depth > 0 && depth%5 == 0 {
			diff := cur.MaterialDiff(justMoved)
			if diff >= 3 {
				return 0.85
			}
			if diff <= -3 {
				return 0.15
			}
		}

		moves := cur.GenerateMoves()
		var move board.Move
		if cfg.Rand.Float32() < cfg.RolloutEpsilon {
			move = moves[cfg.Rand.Intn(len(moves))]
		} else {
			move = bestHeuristicMove(cur, moves, cfg)
		}
		cur = cur.ApplyMove(move)
	}

	if cfg.UseFastRollout {
		v := 0.5 + 0.05*cur.MaterialDiff(justMoved)
		if v < 0.1 {
			v = 0.1
		}
		if v > 0.9 {
			v = 0.9
		}
		return v
	}
	return cfg.DrawScore
}

// bestHeuristicMove picks argmax(1000*captures + heuristic +
// danger_penalty) over moves, per spec.md §4.5.
func bestHeuristicMove(pos board.Position, moves []board.Move, cfg Config) board.Move {
	best := moves[0]
	bestScore := math32.Inf(-1)
	for _, m := range moves {
		score := 1000*float32(m.NumCapture) + evaluator.MoveHeuristic(pos, m, cfg.Weights)
		if cfg.UseLookahead && m.NumCapture == 0 && pos.PieceCount() < 12 {
			next := pos.ApplyMove(m)
			if opponentHasCapture(next) {
				score -= weightDanger
			}
		}
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

func opponentHasCapture(pos board.Position) bool {
	for _, m := range pos.GenerateMoves() {
		if m.NumCapture > 0 {
			return true
		}
	}
	return false
}
