// Package models provides domain models for the stock market service.
package models

// StockType represents the instrument class of a stock.
type StockType string

const (
	StockCommon    StockType = "COMMON"
	StockPreferred StockType = "PREFERRED"
)

// Stock represents one tradeable instrument on the exchange.
// Symbol is unique across the catalog. Price is the current market price
// and is mutated only through the stock store's bulk price update; every
// other field is static reference data fixed at catalog load.
type Stock struct {
	Symbol             string
	Type               StockType
	LastDividend       float64
	FixedDividendRatio float64 // meaningful only for preferred stocks
	ParValue           float64
	Price              float64
}
