package mcts

import (
	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
)

// expandVanilla implements spec.md §4.4's vanilla expansion: pops one
// move from node's untried_moves (LIFO), applies it, creates the
// child, warm-starts it from the TT if configured, appends it under
// node's lock, and returns it.
func expandVanilla(node *Node, tree *Tree, cfg Config) (*Node, error) {
	node.lock.Lock()
	move, ok := node.popUntriedMoveLocked()
	node.lock.Unlock()
	if !ok {
		return nil, nil
	}

	childPos := node.position.ApplyMove(move)
	child, err := tree.newNode(childPos, move, node.position.SideToMove(), node, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.UseTT && tree.TT != nil {
		if hit, found := tree.TT.Lookup(childPos.Hash(), childPos); found {
			child.warmStartFrom(hit)
		}
		tree.TT.Insert(childPos.Hash(), child)
	}

	node.lock.Lock()
	node.children = append(node.children, child)
	node.lock.Unlock()
	return child, nil
}

// expandFull implements spec.md §4.4's full expansion: under node's
// lock, if it has no children yet and is non-terminal, generates every
// legal move, reads the evaluator's filtered-and-normalized policy,
// and allocates a child per move with its prior assigned. It returns
// the evaluator's raw output so the caller can backpropagate its
// value without a second forward pass.
//
// Go's mutex acquire/release around the child-vector append is the
// acquire/release fence pair spec.md §5 asks for around the
// publication of num_children: other goroutines that later call
// node.Children() acquire the same lock before reading, so they never
// observe a partially-appended slice.
func expandFull(node *Node, tree *Tree, cfg Config, forward forwardFunc) (child *Node, out evaluator.Output, err error) {
	node.lock.Lock()
	alreadyExpanded := len(node.children) > 0 || node.isTerminal
	node.lock.Unlock()
	if alreadyExpanded {
		return nil, evaluator.Output{}, nil
	}

	moves := node.position.GenerateMoves()
	if len(moves) == 0 {
		return nil, evaluator.Output{}, nil
	}

	out, err = forward(node.position, historyAt(node, 1), historyAt(node, 2))
	if err != nil {
		return nil, evaluator.Output{}, err
	}

	priors := filterMovePolicy(out.Policy[:], moves, node.position.SideToMove())
	if cfg.UseDirichletNoise && node.parent == nil {
		mixDirichletNoise(priors, cfg, cfg.Rand.Uint64())
	}

	node.lock.Lock()
	defer node.lock.Unlock()
	if len(node.children) > 0 {
		// another worker raced us to expand this node first.
		return node.children[0], out, nil
	}
	for i, m := range moves {
		childPos := node.position.ApplyMove(m)
		c, aErr := tree.newNode(childPos, m, node.position.SideToMove(), node, cfg)
		if aErr != nil {
			return nil, evaluator.Output{}, aErr
		}
		c.prior = priors[i]
		if cfg.UseTT && tree.TT != nil {
			if hit, found := tree.TT.Lookup(childPos.Hash(), childPos); found {
				c.warmStartFrom(hit)
			}
			tree.TT.Insert(childPos.Hash(), c)
		}
		node.children = append(node.children, c)
	}
	node.untriedMoves = nil
	if len(node.children) == 0 {
		return nil, out, nil
	}
	return node.children[0], out, nil
}

// filterMovePolicy reads dense at each legal move's action index,
// normalizes the result to sum to 1, and falls back to a uniform
// distribution when the filtered sum is below 1e-6, per spec.md
// §4.4 step 2.
func filterMovePolicy(dense []float32, moves []board.Move, side board.Color) []float32 {
	out := make([]float32, len(moves))
	var sum float32
	for i, m := range moves {
		idx := evaluator.ActionIndex(m, side)
		if idx >= 0 && idx < len(dense) {
			out[i] = dense[idx]
		}
		sum += out[i]
	}
	if sum < 1e-6 {
		uniform := 1 / float32(len(moves))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// historyAt walks up plies of parent back-references, returning the
// zero Position when history that deep is unavailable (e.g. near the
// root), per spec.md §5's "up-to-two ply of history per node"
// batching note.
func historyAt(node *Node, plies int) board.Position {
	cur := node
	for i := 0; i < plies; i++ {
		if cur.parent == nil {
			return board.Position{}
		}
		cur = cur.parent
	}
	return cur.position
}
