// Package market implements the stock market analytics service: dividend
// yield, volume-weighted stock price over a trailing window, and the
// geometric mean of all current prices, computed over the in-memory
// stock catalog and trade ledger.
package market

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	apperrors "gbce-market/internal/errors"
	"gbce-market/internal/models"
	"gbce-market/internal/store"
)

const (
	// DefaultWindowMinutes is the default trailing window for the
	// volume-weighted stock price.
	DefaultWindowMinutes = 15
	// DefaultPageSize is the default page size for catalog listings. It
	// is also the internal page size the geometric mean uses to walk the
	// catalog.
	DefaultPageSize = 10
)

// Service computes market metrics over one stock catalog and one trade
// ledger. It holds no state of its own: every method is a pure function
// of repository state plus the current time, and all storage and
// retrieval is delegated to the two stores.
type Service struct {
	stocks *store.StockStore
	trades *store.TradeStore
	logger zerolog.Logger
	clock  store.Clock
}

// ServiceConfig holds the collaborators for a Service.
type ServiceConfig struct {
	Stocks *store.StockStore
	Trades *store.TradeStore
	Logger zerolog.Logger
	Clock  store.Clock // defaults to time.Now
}

// NewService creates a new market service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		stocks: cfg.Stocks,
		trades: cfg.Trades,
		logger: cfg.Logger,
		clock:  clock,
	}
}

// ListStocks returns one page of the catalog in insertion order.
func (s *Service) ListStocks(page, size int) []*models.Stock {
	return s.stocks.List(page, size)
}

// DividendYield returns the dividend yield for the given symbol:
// lastDividend/price for common stocks and
// fixedDividendRatio*parValue/price for preferred stocks.
//
// Fails with ErrStockNotFound for symbols absent from the catalog,
// ErrZeroDivisor when the current price is zero, and ErrInvalidStockType
// when the instrument's type is neither common nor preferred. The type
// check is deferred to calculation time; catalog loading does not reject
// unknown types.
func (s *Service) DividendYield(symbol string) (float64, error) {
	stock := s.stocks.GetBySymbol(symbol)
	if stock == nil {
		return 0, apperrors.NewMetricError("dividend_yield", symbol, apperrors.ErrStockNotFound)
	}

	switch stock.Type {
	case models.StockCommon:
		if stock.Price == 0 {
			return 0, apperrors.NewMetricError("dividend_yield", symbol, apperrors.ErrZeroDivisor)
		}
		return stock.LastDividend / stock.Price, nil
	case models.StockPreferred:
		if stock.Price == 0 {
			return 0, apperrors.NewMetricError("dividend_yield", symbol, apperrors.ErrZeroDivisor)
		}
		return stock.FixedDividendRatio * stock.ParValue / stock.Price, nil
	default:
		return 0, apperrors.NewMetricError("dividend_yield", symbol, apperrors.ErrInvalidStockType)
	}
}

// VolumeWeightedPrice returns Σ(price·quantity)/Σ(quantity) over the
// symbol's trades executed within the last lastMinutes minutes. The
// window is evaluated against the clock at call time, so repeated calls
// over the same ledger can see different trade sets as trades age out.
//
// Fails with ErrNoTrades when the window is empty and ErrZeroDivisor
// when the summed quantity is zero, which is reachable only if
// zero-quantity trades were recorded.
func (s *Service) VolumeWeightedPrice(symbol string, lastMinutes int) (float64, error) {
	trades := s.trades.TradesWithin(symbol, time.Duration(lastMinutes)*time.Minute)
	if len(trades) == 0 {
		return 0, apperrors.NewMetricError("vwsp", symbol, apperrors.ErrNoTrades)
	}

	var totalValue float64
	var totalQuantity int
	for _, trade := range trades {
		totalValue += trade.Price * float64(trade.Quantity)
		totalQuantity += trade.Quantity
	}

	if totalQuantity == 0 {
		return 0, apperrors.NewMetricError("vwsp", symbol, apperrors.ErrZeroDivisor)
	}
	return totalValue / float64(totalQuantity), nil
}

// RecordTrade stamps a trade with the current time and appends it to the
// ledger. No validation is performed here: symbol existence, quantity
// sign and price sign are the caller's responsibility, and malformed
// trades are stored as given.
func (s *Service) RecordTrade(id, symbol string, quantity int, side models.TradeSide, price float64) {
	s.trades.Add(models.Trade{
		ID:        id,
		Symbol:    symbol,
		Quantity:  quantity,
		Side:      side,
		Price:     price,
		Timestamp: s.clock(),
	})
}

// GeometricMean returns the Nth root of the product of the N nonzero
// stock prices in the catalog. Zero-priced stocks are excluded from both
// the product and the count rather than treated as zero contributors,
// so a single zero price cannot collapse the whole mean.
//
// The catalog is walked page by page because listing is paginated; the
// nonzero filter and the count are what define the result.
//
// Fails with ErrNoValidPrices when no stock has a nonzero price.
func (s *Service) GeometricMean() (float64, error) {
	totalRecords := s.stocks.Count()
	totalPages := (totalRecords + DefaultPageSize - 1) / DefaultPageSize

	product := 1.0
	count := 0
	for page := 1; page <= totalPages; page++ {
		for _, stock := range s.stocks.List(page, DefaultPageSize) {
			if stock.Price != 0 {
				product *= stock.Price
				count++
			}
		}
	}

	if count == 0 {
		return 0, apperrors.NewMetricError("geometric_mean", "", apperrors.ErrNoValidPrices)
	}
	return math.Pow(product, 1/float64(count)), nil
}

// UpdatePrices applies a bulk price update to the catalog. Unknown
// symbols never fail the batch: they are skipped in the store and
// reported here with one warning each. This is the only operation with
// local, non-fatal recovery; every other failure in the service is
// terminal for that call.
func (s *Service) UpdatePrices(newPrices map[string]float64) {
	for _, symbol := range s.stocks.UpdatePrices(newPrices) {
		s.logger.Warn().Str("symbol", symbol).Msg("price update skipped: stock not found")
	}
}
