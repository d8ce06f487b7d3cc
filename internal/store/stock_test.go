package store

import (
	"testing"

	"gbce-market/internal/models"
)

func seedCatalog(s *StockStore, symbols ...string) {
	for i, symbol := range symbols {
		s.Add(&models.Stock{
			Symbol:   symbol,
			Type:     models.StockCommon,
			ParValue: 100,
			Price:    float64(10 * (i + 1)),
		})
	}
}

func TestStockStoreAddLastWriteWins(t *testing.T) {
	s := NewStockStore()
	seedCatalog(s, "TEA", "POP", "ALE")

	s.Add(&models.Stock{Symbol: "POP", Type: models.StockPreferred, ParValue: 100, Price: 99})

	if got := s.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	if got := s.GetBySymbol("POP"); got.Price != 99 || got.Type != models.StockPreferred {
		t.Errorf("overwrite not applied: %+v", got)
	}

	// Overwriting must keep the symbol's original listing position.
	page := s.List(1, 3)
	if page[1].Symbol != "POP" {
		t.Errorf("POP moved to position %d after overwrite", indexOf(page, "POP"))
	}
}

func indexOf(stocks []*models.Stock, symbol string) int {
	for i, s := range stocks {
		if s.Symbol == symbol {
			return i
		}
	}
	return -1
}

func TestStockStoreGetBySymbolMissing(t *testing.T) {
	s := NewStockStore()
	if got := s.GetBySymbol("TEA"); got != nil {
		t.Errorf("GetBySymbol on empty catalog = %+v, want nil", got)
	}
}

func TestStockStoreUpdatePrices(t *testing.T) {
	s := NewStockStore()
	seedCatalog(s, "TEA", "POP")

	skipped := s.UpdatePrices(map[string]float64{
		"TEA": 35.0,
		"XXX": 99.0,
		"YYY": 1.0,
	})

	if got := s.GetBySymbol("TEA").Price; got != 35.0 {
		t.Errorf("TEA price = %v, want 35.0", got)
	}
	if got := s.Count(); got != 2 {
		t.Errorf("Count() = %d after update, want 2", got)
	}
	if len(skipped) != 2 || skipped[0] != "XXX" || skipped[1] != "YYY" {
		t.Errorf("skipped = %v, want [XXX YYY]", skipped)
	}
}

func TestStockStoreListPagination(t *testing.T) {
	s := NewStockStore()
	seedCatalog(s, "TEA", "POP", "ALE", "GIN", "JOE")

	page1 := s.List(1, 2)
	if len(page1) != 2 || page1[0].Symbol != "TEA" || page1[1].Symbol != "POP" {
		t.Errorf("page 1 = %v", symbols(page1))
	}
	page3 := s.List(3, 2)
	if len(page3) != 1 || page3[0].Symbol != "JOE" {
		t.Errorf("page 3 = %v, want [JOE]", symbols(page3))
	}

	if got := s.List(4, 2); len(got) != 0 {
		t.Errorf("out-of-range page = %v, want empty", symbols(got))
	}
	if got := s.List(0, 2); len(got) != 0 {
		t.Errorf("page 0 = %v, want empty", symbols(got))
	}
	if got := s.List(1, 0); len(got) != 0 {
		t.Errorf("size 0 = %v, want empty", symbols(got))
	}
}

func symbols(stocks []*models.Stock) []string {
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Symbol
	}
	return out
}
