package evaluator

import (
	"sync"

	"github.com/damazero/engine/board"
)

// MockBatchEvaluator wraps a delegate evaluator and records the size
// of every ForwardBatch call, for spec.md §8 scenario 6 (inference
// batching liveness): "a mock evaluator that records batch sizes".
type MockBatchEvaluator struct {
	Delegate Evaluator

	mu         sync.Mutex
	batchSizes []int
}

func NewMockBatchEvaluator(delegate Evaluator) *MockBatchEvaluator {
	if delegate == nil {
		delegate = NewHeuristicEvaluator()
	}
	return &MockBatchEvaluator{Delegate: delegate}
}

func (m *MockBatchEvaluator) ForwardWithHistory(pos, h1, h2 board.Position) (Output, error) {
	return m.Delegate.ForwardWithHistory(pos, h1, h2)
}

func (m *MockBatchEvaluator) ForwardBatch(positions, h1, h2 []board.Position, outputs []Output) error {
	m.mu.Lock()
	m.batchSizes = append(m.batchSizes, len(positions))
	m.mu.Unlock()
	return m.Delegate.ForwardBatch(positions, h1, h2, outputs)
}

// BatchSizes returns a snapshot of every recorded batch size.
func (m *MockBatchEvaluator) BatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.batchSizes))
	copy(out, m.batchSizes)
	return out
}

// MeanBatchSize returns the average recorded batch size, or 0 if none
// were recorded.
func (m *MockBatchEvaluator) MeanBatchSize() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batchSizes) == 0 {
		return 0
	}
	var sum int
	for _, s := range m.batchSizes {
		sum += s
	}
	return float64(sum) / float64(len(m.batchSizes))
}
