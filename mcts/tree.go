package mcts

import (
	"github.com/damazero/engine/arena"
	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
	"github.com/damazero/engine/ttable"
)

// repetitionHeuristicPenalty and repetitionScoreSeed are the
// heuristicScore penalty and score seed spec.md
// §4.4 assigns a node whose position repeats an ancestor's hash, per
// the loop-detection rule.
const (
	repetitionHeuristicPenalty float32 = -50000
	repetitionScoreSeed        float32 = -1.0
)

// Tree owns the arena every node in a search is allocated from and
// (optionally) the transposition table nodes warm-start from. It is
// the counterpart of spec.md §2's "Arena allocator" and "Transposition
// table" leaves, composed together because both are addressed by the
// same Node type in this Go rendition.
type Tree struct {
	Arena *arena.Arena[Node]
	TT    *ttable.Table[board.Position, *Node]
}

// NewTree allocates a tree whose arena can hold up to maxNodes nodes.
// ttBits sizes the transposition table to 2^ttBits slots; pass 0 to
// run without a TT (ok: UseTT is independently settable per spec.md
// §6).
func NewTree(maxNodes int, ttBits uint) *Tree {
	t := &Tree{Arena: arena.New[Node](maxNodes)}
	if ttBits > 0 {
		t.TT = ttable.New[board.Position, *Node](ttBits)
	}
	return t
}

// RootCreate builds a root node with no move-from-parent, fulfilling
// spec.md §6's root_create(position, arena, config) contract.
func (t *Tree) RootCreate(pos board.Position, cfg Config) (*Node, error) {
	return t.newNode(pos, board.Move{}, pos.SideToMove().Opponent(), nil, cfg)
}

// newNode allocates and initializes a node for the position reached
// by playing move from parent, running move generation to populate
// untriedMoves, marking it terminal on a stalemate or draw, running
// loop detection against ancestors, and computing heuristicScore —
// the full node-creation recipe of spec.md §4.4's last two paragraphs.
func (t *Tree) newNode(pos board.Position, move board.Move, justMoved board.Color, parent *Node, cfg Config) (*Node, error) {
	n, err := t.Arena.Alloc()
	if err != nil {
		return nil, err
	}
	n.position = pos
	n.moveFromParent = move
	n.playerWhoJustMoved = justMoved
	n.parent = parent

	ended, _, isDraw := pos.Ended()
	if ended {
		n.isTerminal = true
		if isDraw {
			n.status = ProvenDraw
		} else {
			// no legal moves: the side to move at this node loses.
			n.status = ProvenLoss
		}
	} else {
		n.untriedMoves = pos.GenerateMoves()
	}

	if parent != nil {
		n.heuristicScore = evaluator.MoveHeuristic(parent.position, move, cfg.Weights)
	}

	if ancestorRepeats(parent, pos.Hash()) {
		n.isTerminal = true
		n.status = ProvenDraw
		n.heuristicScore += repetitionHeuristicPenalty
		n.score = repetitionScoreSeed
	}

	return n, nil
}

// ancestorRepeats walks parent back-references looking for a matching
// position hash, per spec.md §3's loop-detection invariant.
func ancestorRepeats(parent *Node, hash uint64) bool {
	for a := parent; a != nil; a = a.parent {
		if a.position.Hash() == hash {
			return true
		}
	}
	return false
}

// ShiftRoot retains the subtree rooted at child as the new root,
// discarding siblings for tree reuse (spec.md §4.7 step 6, GLOSSARY
// "Tree reuse"). The old root and its other children remain allocated
// in the arena (an arena has no per-object free) but are no longer
// reachable from the returned root.
func (t *Tree) ShiftRoot(child *Node) *Node {
	child.parent = nil
	return child
}
