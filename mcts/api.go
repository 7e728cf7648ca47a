package mcts

import "github.com/damazero/engine/board"

// FindChildByMove implements spec.md §6's find_child_by_move(parent,
// move) → Node?: a linear scan for move-path equality.
func FindChildByMove(parent *Node, move board.Move) *Node {
	return parent.findChild(move)
}

// TreeDepth implements spec.md §6's tree_depth(node) → int: the
// recursive maximum depth below node, 0 at leaves.
func TreeDepth(node *Node) int {
	return treeDepth(node)
}
