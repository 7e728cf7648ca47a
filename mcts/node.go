package mcts

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/damazero/engine/board"
)

// Status is a node's solver tag, per spec.md §3. Transitions are
// monotonic: once proven, a node's status never returns to Unknown.
type Status int32

const (
	Unknown Status = iota
	ProvenWin
	ProvenLoss
	ProvenDraw
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case ProvenWin:
		return "ProvenWin"
	case ProvenLoss:
		return "ProvenLoss"
	case ProvenDraw:
		return "ProvenDraw"
	}
	return "UNKNOWN STATUS"
}

func (s Status) IsProven() bool { return s != Unknown }

// Node is one tree position. It is born in expand (or RootCreate),
// owned exclusively by the arena that allocated it, and never freed
// individually; parent and children are non-owning references that
// stay valid for the arena's lifetime.
//
// visits and virtualLoss are mutated only via atomic read-modify-write
// (the hot descent/backprop path); score, sumSqScore, status and the
// children/untriedMoves vectors are guarded by lock.
type Node struct {
	position           board.Position
	moveFromParent     board.Move
	playerWhoJustMoved board.Color
	parent             *Node

	visits      uint32 // atomic
	virtualLoss int32  // atomic

	lock         sync.Mutex
	children     []*Node
	untriedMoves []board.Move
	score        float32
	sumSqScore   float32
	status       Status

	// heuristicScore is the static evaluation of the move that created
	// this node, used by progressive bias.
	heuristicScore float32
	// prior is the evaluator-supplied P(a|s_parent) for this edge; zero
	// when no evaluator is configured.
	prior float32
	// cachedPolicy is a slot for a dense policy vector cached at this
	// node. Neither expansion path fills it, so it is always nil.
	cachedPolicy []float32

	isTerminal bool
}

// Format implements fmt.Formatter for debug logging, mirroring the
// field set a reader most wants to see at a glance.
func (n *Node) Format(s fmt.State, _ rune) {
	fmt.Fprintf(s, "{move=%v visits=%d score=%.3f status=%v children=%d}",
		n.moveFromParent, n.Visits(), n.Score(), n.Status(), len(n.Children()))
}

// Position returns the position at this node.
func (n *Node) Position() board.Position { return n.position }

// MoveFromParent returns the move that produced this node (the zero
// move at the root).
func (n *Node) MoveFromParent() board.Move { return n.moveFromParent }

// PlayerWhoJustMoved returns the side that played MoveFromParent.
func (n *Node) PlayerWhoJustMoved() board.Color { return n.playerWhoJustMoved }

// Parent returns the non-owning back-reference, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// IsTerminal reports whether this node has no successors.
func (n *Node) IsTerminal() bool { return n.isTerminal }

// Visits returns the monotonically increasing visit count.
func (n *Node) Visits() uint32 { return atomic.LoadUint32(&n.visits) }

func (n *Node) addVisit() { atomic.AddUint32(&n.visits, 1) }

// VirtualLoss returns the number of in-flight traversals currently
// passing through this node.
func (n *Node) VirtualLoss() int32 { return atomic.LoadInt32(&n.virtualLoss) }

func (n *Node) addVirtualLoss(delta int32) { atomic.AddInt32(&n.virtualLoss, delta) }

// Score returns the accumulated backpropagated score sum under lock.
func (n *Node) Score() float32 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.score
}

// SumSqScore returns the accumulated sum of squared scores.
func (n *Node) SumSqScore() float32 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.sumSqScore
}

// Status returns the node's solver tag.
func (n *Node) Status() Status {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.status
}

// setStatusLocked transitions the node's status. Callers must hold lock.
func (n *Node) setStatusLocked(s Status) {
	if n.status == Unknown {
		n.status = s
	}
}

// HeuristicScore returns the static evaluation of the move into this
// node, used by progressive bias.
func (n *Node) HeuristicScore() float32 { return n.heuristicScore }

// Prior returns P(a|s_parent), zero when no evaluator is configured.
func (n *Node) Prior() float32 { return n.prior }

// Children returns a snapshot of the child vector, copied while holding
// lock. The vector only ever grows (append-only), so a later call can
// only see the same children plus newer ones.
func (n *Node) Children() []*Node {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns len(Children()) without the copy.
func (n *Node) NumChildren() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.children)
}

// HasUntriedMoves reports whether untriedMoves is non-empty.
func (n *Node) HasUntriedMoves() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.untriedMoves) > 0
}

// IsFullyExpanded reports the descent-stopping condition of spec.md
// §4.3: non-terminal, no untried moves, and at least one child.
func (n *Node) IsFullyExpanded() bool {
	n.lock.Lock()
	defer n.lock.Unlock()
	return !n.isTerminal && len(n.untriedMoves) == 0 && len(n.children) > 0
}

// popUntriedMoveLocked pops (LIFO) one move from untriedMoves. Callers must
// hold lock.
func (n *Node) popUntriedMoveLocked() (board.Move, bool) {
	l := len(n.untriedMoves)
	if l == 0 {
		return board.Move{}, false
	}
	m := n.untriedMoves[l-1]
	n.untriedMoves = n.untriedMoves[:l-1]
	return m, true
}

// findChild performs the linear scan find_child_by_move contract of
// spec.md §6: move-path equality against every child.
func (n *Node) findChild(move board.Move) *Node {
	for _, c := range n.Children() {
		if c.moveFromParent.Equal(move) {
			return c
		}
	}
	return nil
}

// PositionHash implements ttable.Entry[board.Position].
func (n *Node) PositionHash() uint64 { return n.position.Hash() }

// PositionEqual implements ttable.Entry[board.Position]: full
// component-wise equality, guarding against hash collisions.
func (n *Node) PositionEqual(pos board.Position) bool { return n.position.Equal(pos) }

// warmStartFrom seeds this node's visits/score/sumSqScore/status from
// an existing transposition-table hit, per spec.md §4.4's
// warm-starting rule for both expansion strategies.
func (n *Node) warmStartFrom(hit *Node) {
	if hit == nil {
		return
	}
	atomic.StoreUint32(&n.visits, hit.Visits())
	hit.lock.Lock()
	score, sumSq, status := hit.score, hit.sumSqScore, hit.status
	hit.lock.Unlock()

	n.lock.Lock()
	n.score = score
	n.sumSqScore = sumSq
	n.status = status
	n.lock.Unlock()
}

// treeDepth implements the tree_depth(node) contract of spec.md §6:
// recursive maximum depth, 0 at leaves.
func treeDepth(n *Node) int {
	children := n.Children()
	if len(children) == 0 {
		return 0
	}
	max := 0
	for _, c := range children {
		if d := treeDepth(c); d > max {
			max = d
		}
	}
	return max + 1
}
