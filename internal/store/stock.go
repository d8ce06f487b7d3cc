package store

import (
	"sort"
	"sync"

	"gbce-market/internal/models"
)

// StockStore holds the stock catalog, keyed by symbol, and preserves
// insertion order for pagination. It exclusively owns all Stock values:
// lookups return pointers into the catalog, and price mutation happens
// only through UpdatePrices.
type StockStore struct {
	stocks map[string]*models.Stock
	order  []string // symbols in insertion order

	mu sync.RWMutex
}

// NewStockStore creates an empty stock catalog.
func NewStockStore() *StockStore {
	return &StockStore{
		stocks: make(map[string]*models.Stock),
	}
}

// Add inserts or overwrites the catalog entry for stock.Symbol. Last
// write wins; overwriting keeps the symbol's original position in the
// listing order.
func (s *StockStore) Add(stock *models.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stocks[stock.Symbol]; !exists {
		s.order = append(s.order, stock.Symbol)
	}
	s.stocks[stock.Symbol] = stock
}

// GetBySymbol returns the stock for the given symbol, or nil when the
// symbol is not in the catalog.
func (s *StockStore) GetBySymbol(symbol string) *models.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stocks[symbol]
}

// UpdatePrices overwrites the price of every known symbol in newPrices
// in place. Unknown symbols never abort the batch: they are skipped and
// returned, sorted, so the caller can report them.
func (s *StockStore) UpdatePrices(newPrices map[string]float64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var skipped []string
	for symbol, price := range newPrices {
		if stock, ok := s.stocks[symbol]; ok {
			stock.Price = price
		} else {
			skipped = append(skipped, symbol)
		}
	}
	sort.Strings(skipped)
	return skipped
}

// List returns the page of the catalog covering
// [(page-1)*size, page*size) in insertion order. Pages beyond the
// catalog's extent, and non-positive arguments, yield an empty result.
// Pagination is live, not snapshot-isolated: inserts between calls can
// shift page boundaries.
func (s *StockStore) List(page, size int) []*models.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 || size < 1 {
		return []*models.Stock{}
	}

	start := (page - 1) * size
	if start >= len(s.order) {
		return []*models.Stock{}
	}
	end := start + size
	if end > len(s.order) {
		end = len(s.order)
	}

	stocks := make([]*models.Stock, 0, end-start)
	for _, symbol := range s.order[start:end] {
		stocks = append(stocks, s.stocks[symbol])
	}
	return stocks
}

// Count returns the current catalog size.
func (s *StockStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
