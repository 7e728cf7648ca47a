package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackpropagateAccumulatesScoreAndFlipsPerspective(t *testing.T) {
	cfg := DefaultConfig()
	root := &Node{}
	child := &Node{parent: root}
	root.children = []*Node{child}
	child.addVirtualLoss(1)

	Backpropagate(child, 1.0, cfg)

	assert.Equal(t, uint32(1), child.Visits())
	assert.Equal(t, float32(1.0), child.Score())
	assert.Equal(t, int32(0), child.VirtualLoss())

	assert.Equal(t, uint32(1), root.Visits())
	assert.Equal(t, float32(0.0), root.Score(), "perspective flips: 1 - 1.0 = 0")
}

func TestUpdateSolverStatusMarksProvenWinOnLosingChild(t *testing.T) {
	node := &Node{}
	lost := &Node{status: ProvenLoss}
	node.children = []*Node{lost}

	node.lock.Lock()
	updateSolverStatusLocked(node)
	node.lock.Unlock()

	assert.Equal(t, ProvenWin, node.Status())
}

func TestUpdateSolverStatusMarksProvenLossOnlyWhenFullyExpandedAndAllWin(t *testing.T) {
	node := &Node{}
	a := &Node{status: ProvenWin}
	b := &Node{status: Unknown}
	node.children = []*Node{a, b}

	node.lock.Lock()
	updateSolverStatusLocked(node)
	node.lock.Unlock()
	assert.Equal(t, Unknown, node.Status(), "not every child is proven yet")

	b.status = ProvenWin
	node.lock.Lock()
	updateSolverStatusLocked(node)
	node.lock.Unlock()
	assert.Equal(t, ProvenLoss, node.Status())
}

func TestUpdateSolverStatusIsNoOpOnceProven(t *testing.T) {
	node := &Node{status: ProvenDraw}
	lost := &Node{status: ProvenLoss}
	node.children = []*Node{lost}

	node.lock.Lock()
	updateSolverStatusLocked(node)
	node.lock.Unlock()

	assert.Equal(t, ProvenDraw, node.Status(), "status transitions are monotonic once proven")
}

func TestTerminalResultPerspective(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawScore = 0.5

	lossNode := &Node{status: ProvenLoss} // side to move at node loses: win for whoever moved here
	assert.Equal(t, WinScore, terminalResult(lossNode, cfg))

	winNode := &Node{status: ProvenWin}
	assert.Equal(t, LossScore, terminalResult(winNode, cfg))

	drawNode := &Node{status: ProvenDraw}
	assert.Equal(t, cfg.DrawScore, terminalResult(drawNode, cfg))
}
