package mcts

import "github.com/chewxy/math32"

// SelectLeaf descends from root while the current node is non-terminal
// AND fully expanded (no untried moves) AND has at least one child,
// per spec.md §4.3. It stops at the first node where any of those
// conditions fails — a genuine leaf to expand, or a race where no
// child was selectable.
func SelectLeaf(root *Node, cfg Config) *Node {
	current := root
	for current.IsFullyExpanded() {
		next := selectChild(current, cfg)
		if next == nil {
			break
		}
		current = next
	}
	return current
}

// selectChild picks one child of node under cfg's selection formula,
// applying solver overrides first, and increments the chosen child's
// virtual loss by one (spec.md §4.3's "virtual loss of the chosen
// child is incremented by 1 via atomic fetch-add on each descent
// step").
func selectChild(node *Node, cfg Config) *Node {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}

	if cfg.UseSolver && node.Status() == ProvenWin {
		for _, c := range children {
			if c.Status() == ProvenLoss {
				c.addVirtualLoss(1)
				return c
			}
		}
	}

	var best *Node
	bestScore := math32.Inf(-1)
	for _, c := range children {
		s := selectionScore(node, c, cfg)
		if cfg.UseSolver {
			switch c.Status() {
			case ProvenWin:
				s = -1e5
			case ProvenLoss:
				s = 1e5 + c.Score()
			}
		}
		// first-seen wins: strict > keeps the earliest child on ties.
		if s > bestScore {
			bestScore = s
			best = c
		}
	}
	if best == nil {
		return nil
	}
	best.addVirtualLoss(1)
	return best
}

// selectionScore computes the base (non-solver) score for child under
// node's configured selection mode, then adds progressive bias if
// enabled. The three modes are spec.md §4.3's score table.
func selectionScore(parent, child *Node, cfg Config) float32 {
	var score float32
	switch cfg.Selection {
	case PUCT:
		score = puctScore(parent, child, cfg)
	case UCB1Tuned:
		score = ucb1TunedScore(parent, child, cfg)
	default:
		score = ucb1Score(parent, child, cfg)
	}
	if cfg.UseProgressiveBias {
		n := float32(child.Visits())
		score += cfg.BiasConstant * child.HeuristicScore() / (n + 1)
	}
	return score
}

func ucb1Score(parent, child *Node, cfg Config) float32 {
	n := child.Visits()
	if n == 0 {
		if cfg.UseFPU {
			return cfg.FPUValue
		}
		return math32.Inf(1)
	}
	w := child.Score()
	N := float32(parent.Visits())
	nf := float32(n)
	return w/nf + cfg.UCB1C*math32.Sqrt(math32.Log(N)/nf)
}

func ucb1TunedScore(parent, child *Node, cfg Config) float32 {
	n := child.Visits()
	if n == 0 {
		if cfg.UseFPU {
			return cfg.FPUValue
		}
		return math32.Inf(1)
	}
	w := child.Score()
	q := child.SumSqScore()
	N := float32(parent.Visits())
	nf := float32(n)
	mean := w / nf
	variance := q/nf - mean*mean
	exploreTerm := math32.Sqrt(2 * math32.Log(N) / nf)
	bound := variance + exploreTerm
	if bound > 0.25 {
		bound = 0.25
	}
	return mean + math32.Sqrt(math32.Log(N)/nf*bound)
}

// puctScore implements spec.md §4.3's PUCT row uniformly across the
// visited/unvisited split: virtual loss folds into an effective visit
// count N' = n + L so an in-flight child is discouraged even before
// its own backpropagation lands.
func puctScore(parent, child *Node, cfg Config) float32 {
	L := float32(child.VirtualLoss())
	n := float32(child.Visits())
	nPrime := n + L
	w := child.Score()

	var qPrime float32
	if nPrime < 1 {
		qPrime = w
	} else {
		qPrime = (w - L) / nPrime
	}

	nParent := float32(parent.Visits())
	prior := child.Prior()
	if cfg.Evaluator == nil && prior == 0 {
		// no evaluator assigned priors: every child uses 1.0 instead.
		prior = 1
	}
	u := cfg.PUCTC * prior * math32.Sqrt(nParent) / (1 + nPrime)
	return qPrime + u
}
