package store

import (
	"sync"
	"time"

	"gbce-market/internal/models"
)

// TradeStore is the trade ledger: per-symbol lists of executed trades in
// insertion order, which is chronological order since timestamps are
// assigned monotonically at recording time. Trades are stored by value
// and never mutated or removed.
type TradeStore struct {
	trades map[string][]models.Trade
	clock  Clock

	mu sync.RWMutex
}

// NewTradeStore creates an empty trade ledger using the wall clock for
// window filtering.
func NewTradeStore() *TradeStore {
	return NewTradeStoreWithClock(time.Now)
}

// NewTradeStoreWithClock creates an empty trade ledger with the given
// clock. A nil clock falls back to time.Now.
func NewTradeStoreWithClock(clock Clock) *TradeStore {
	if clock == nil {
		clock = time.Now
	}
	return &TradeStore{
		trades: make(map[string][]models.Trade),
		clock:  clock,
	}
}

// Add appends the trade to the list for trade.Symbol, creating the list
// on first use. The ledger does not validate the trade; malformed trades
// are stored as given.
func (s *TradeStore) Add(trade models.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[trade.Symbol] = append(s.trades[trade.Symbol], trade)
}

// Trades returns every trade recorded for the symbol in insertion order.
// Unknown symbols yield an empty, non-nil slice, never an error.
func (s *TradeStore) Trades(symbol string) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := make([]models.Trade, len(s.trades[symbol]))
	copy(trades, s.trades[symbol])
	return trades
}

// TradesWithin returns the symbol's trades no older than maxAge,
// measured against the clock at call time. The window slides with the
// clock: two calls over identical data can return different result sets.
// The filter is linear in the symbol's trade count; no time index is
// maintained.
func (s *TradeStore) TradesWithin(symbol string, maxAge time.Duration) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	trades := make([]models.Trade, 0, len(s.trades[symbol]))
	for _, trade := range s.trades[symbol] {
		if now.Sub(trade.Timestamp) <= maxAge {
			trades = append(trades, trade)
		}
	}
	return trades
}
