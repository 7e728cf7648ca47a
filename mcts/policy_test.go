package mcts

import (
	"testing"

	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
	"github.com/stretchr/testify/assert"
)

func buildRootWithChildren(t *testing.T, visits ...uint32) (*Node, board.Position) {
	t.Helper()
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	pos := board.NewStartingPosition()
	root, err := tree.RootCreate(pos, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for len(root.untriedMoves) > 0 && len(root.children) < len(visits) {
		if _, err := expandVanilla(root, tree, cfg); err != nil {
			t.Fatal(err)
		}
	}
	root.addVisit()
	for i, c := range root.children {
		atomicSetVisits(c, visits[i])
	}
	return root, pos
}

func atomicSetVisits(n *Node, v uint32) {
	for n.Visits() < v {
		n.addVisit()
	}
}

func TestGetPolicyZeroTemperaturePicksArgmaxVisits(t *testing.T) {
	root, pos := buildRootWithChildren(t, 3, 9, 1)
	policy := GetPolicy(root, 0, pos)

	var sum float32
	best := -1
	for i, p := range policy {
		if p > 0 {
			best = i
			sum += p
		}
	}
	assert.Equal(t, float32(1), sum)
	expectedIdx := evaluator.ActionIndex(root.children[1].MoveFromParent(), pos.SideToMove())
	assert.Equal(t, expectedIdx, best)
}

func TestGetPolicyHighTemperatureIsUniformAcrossEqualVisits(t *testing.T) {
	root, pos := buildRootWithChildren(t, 4, 4, 4)
	policy := GetPolicy(root, 1.0, pos)

	var sum float32
	count := 0
	var first float32 = -1
	for _, p := range policy {
		if p > 0 {
			sum += p
			count++
			if first < 0 {
				first = p
			}
			assert.InDelta(t, first, p, 1e-5)
		}
	}
	assert.Equal(t, 3, count)
	assert.InDelta(t, 1, sum, 1e-5)
}

func TestGetPolicyReturnsZeroVectorOnUnvisitedRoot(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	pos := board.NewStartingPosition()
	root, err := tree.RootCreate(pos, cfg)
	if err != nil {
		t.Fatal(err)
	}
	policy := GetPolicy(root, 1.0, pos)
	for _, p := range policy {
		assert.Equal(t, float32(0), p)
	}
}
