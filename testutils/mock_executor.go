package testutils

import (
	"fmt"
	"sync"

	"github.com/evdnx/solid/types"
)

// MockExecutor implements the Executor interface in-memory.
type MockExecutor struct {
	mu        sync.RWMutex
	equity    float64
	positions map[string]float64
	avgPrice  map[string]float64
	orders    []types.Order // captured for assertions
	// FailNext makes the next Submit return an error.
	FailNext bool
}

// NewMockExecutor creates a fresh executor with the supplied starting equity.
func NewMockExecutor(startEquity float64) *MockExecutor {
	return &MockExecutor{
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
	}
}

// Submit records the order and updates equity/position like PaperExecutor.
func (m *MockExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("mock executor: rejected %s %s", o.Side, o.Symbol)
	}
	cost := o.Price * o.Qty
	if o.Side == types.Buy {
		if cost > m.equity {
			return fmt.Errorf("mock executor: insufficient cash")
		}
		m.equity -= cost
		prev := m.positions[o.Symbol]
		m.positions[o.Symbol] = prev + o.Qty
		m.avgPrice[o.Symbol] = (m.avgPrice[o.Symbol]*prev + cost) / m.positions[o.Symbol]
	} else {
		if o.Qty > m.positions[o.Symbol] {
			return fmt.Errorf("mock executor: insufficient position")
		}
		m.equity += cost
		m.positions[o.Symbol] -= o.Qty
	}
	m.orders = append(m.orders, o)
	return nil
}

// Equity returns the current cash balance.
func (m *MockExecutor) Equity() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.equity
}

// Position returns qty & avg price for a symbol.
func (m *MockExecutor) Position(symbol string) (float64, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[symbol], m.avgPrice[symbol]
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}
