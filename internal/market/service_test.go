package market

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "gbce-market/internal/errors"
	"gbce-market/internal/models"
	"gbce-market/internal/store"
)

func newTestService(now *time.Time) (*Service, *store.StockStore) {
	clock := func() time.Time { return *now }
	stocks := store.NewStockStore()
	svc := NewService(ServiceConfig{
		Stocks: stocks,
		Trades: store.NewTradeStoreWithClock(clock),
		Logger: zerolog.Nop(),
		Clock:  clock,
	})
	return svc, stocks
}

func testTime() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDividendYieldNotFound(t *testing.T) {
	now := testTime()
	svc, _ := newTestService(&now)

	_, err := svc.DividendYield("TEA")
	if !errors.Is(err, apperrors.ErrStockNotFound) {
		t.Fatalf("err = %v, want ErrStockNotFound", err)
	}

	var metricErr *apperrors.MetricError
	if !errors.As(err, &metricErr) {
		t.Fatalf("err = %T, want *MetricError", err)
	}
	if metricErr.Symbol != "TEA" {
		t.Errorf("MetricError.Symbol = %q, want TEA", metricErr.Symbol)
	}
}

func TestDividendYieldCommon(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "ALE", Type: models.StockCommon, LastDividend: 23, ParValue: 60, Price: 24.43})

	yield, err := svc.DividendYield("ALE")
	if err != nil {
		t.Fatalf("DividendYield(ALE) error: %v", err)
	}
	if want := 23 / 24.43; yield != want {
		t.Errorf("yield = %v, want %v", yield, want)
	}
}

func TestDividendYieldCommonZeroPrice(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "TEA", Type: models.StockCommon, LastDividend: 5, ParValue: 100, Price: 0})

	_, err := svc.DividendYield("TEA")
	if !errors.Is(err, apperrors.ErrZeroDivisor) {
		t.Fatalf("err = %v, want ErrZeroDivisor", err)
	}
}

func TestDividendYieldPreferred(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{
		Symbol: "POP", Type: models.StockPreferred,
		LastDividend: 10, FixedDividendRatio: 0.035, ParValue: 100, Price: 47.48,
	})

	yield, err := svc.DividendYield("POP")
	if err != nil {
		t.Fatalf("DividendYield(POP) error: %v", err)
	}
	if want := 0.035 * 100 / 47.48; yield != want {
		t.Errorf("yield = %v, want %v", yield, want)
	}
}

func TestDividendYieldPreferredZeroPrice(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "GIN", Type: models.StockPreferred, FixedDividendRatio: 0.02, ParValue: 100, Price: 0})

	_, err := svc.DividendYield("GIN")
	if !errors.Is(err, apperrors.ErrZeroDivisor) {
		t.Fatalf("err = %v, want ErrZeroDivisor", err)
	}
}

func TestDividendYieldInvalidType(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	// The catalog accepts any type value; the check is deferred to here.
	stocks.Add(&models.Stock{Symbol: "ODD", Type: "CONVERTIBLE", ParValue: 100, Price: 10})

	_, err := svc.DividendYield("ODD")
	if !errors.Is(err, apperrors.ErrInvalidStockType) {
		t.Fatalf("err = %v, want ErrInvalidStockType", err)
	}
}

func TestVolumeWeightedPrice(t *testing.T) {
	now := testTime()
	svc, _ := newTestService(&now)

	svc.RecordTrade("1", "TEA", 1000, models.TradeBuy, 35)
	svc.RecordTrade("2", "TEA", 60000, models.TradeSell, 36)

	vwsp, err := svc.VolumeWeightedPrice("TEA", DefaultWindowMinutes)
	if err != nil {
		t.Fatalf("VolumeWeightedPrice error: %v", err)
	}
	want := (35.0*1000 + 36.0*60000) / (1000 + 60000)
	if !almostEqual(vwsp, want) {
		t.Errorf("vwsp = %v, want %v", vwsp, want)
	}
}

func TestVolumeWeightedPriceExcludesOldTrades(t *testing.T) {
	now := testTime()
	svc, _ := newTestService(&now)

	svc.RecordTrade("old", "TEA", 500, models.TradeBuy, 10)
	now = now.Add(20 * time.Minute)
	svc.RecordTrade("new", "TEA", 1000, models.TradeBuy, 35)

	vwsp, err := svc.VolumeWeightedPrice("TEA", 15)
	if err != nil {
		t.Fatalf("VolumeWeightedPrice error: %v", err)
	}
	if vwsp != 35 {
		t.Errorf("vwsp = %v, want 35 (old trade must be excluded)", vwsp)
	}
}

func TestVolumeWeightedPriceNoTrades(t *testing.T) {
	now := testTime()
	svc, _ := newTestService(&now)

	_, err := svc.VolumeWeightedPrice("TEA", 15)
	if !errors.Is(err, apperrors.ErrNoTrades) {
		t.Fatalf("err = %v, want ErrNoTrades", err)
	}

	// A trade outside the window leaves the window empty too.
	svc.RecordTrade("1", "TEA", 1000, models.TradeBuy, 35)
	now = now.Add(16 * time.Minute)
	_, err = svc.VolumeWeightedPrice("TEA", 15)
	if !errors.Is(err, apperrors.ErrNoTrades) {
		t.Fatalf("err = %v, want ErrNoTrades after window slides", err)
	}
}

func TestVolumeWeightedPriceZeroQuantity(t *testing.T) {
	now := testTime()
	svc, _ := newTestService(&now)

	// The ledger stores malformed trades as given; a zero-quantity trade
	// is the one way to reach the zero-divisor check.
	svc.RecordTrade("1", "TEA", 0, models.TradeBuy, 35)

	_, err := svc.VolumeWeightedPrice("TEA", 15)
	if !errors.Is(err, apperrors.ErrZeroDivisor) {
		t.Fatalf("err = %v, want ErrZeroDivisor", err)
	}
}

func TestRecordTradeStampsCurrentTime(t *testing.T) {
	now := testTime()
	trades := store.NewTradeStoreWithClock(func() time.Time { return now })
	svc := NewService(ServiceConfig{
		Stocks: store.NewStockStore(),
		Trades: trades,
		Logger: zerolog.Nop(),
		Clock:  func() time.Time { return now },
	})

	svc.RecordTrade("1", "TEA", -5, models.TradeSell, 35)

	got := trades.Trades("TEA")
	if len(got) != 1 {
		t.Fatalf("len(trades) = %d, want 1", len(got))
	}
	if !got[0].Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, now)
	}
	// No validation at this layer: the negative quantity is kept.
	if got[0].Quantity != -5 {
		t.Errorf("Quantity = %d, want -5", got[0].Quantity)
	}
}

func TestGeometricMean(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "A", Type: models.StockCommon, ParValue: 100, Price: 2})
	stocks.Add(&models.Stock{Symbol: "B", Type: models.StockCommon, ParValue: 100, Price: 8})

	mean, err := svc.GeometricMean()
	if err != nil {
		t.Fatalf("GeometricMean error: %v", err)
	}
	if !almostEqual(mean, 4) {
		t.Errorf("mean = %v, want 4", mean)
	}
}

func TestGeometricMeanExcludesZeroPrices(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "A", Type: models.StockCommon, ParValue: 100, Price: 0})
	stocks.Add(&models.Stock{Symbol: "B", Type: models.StockCommon, ParValue: 100, Price: 2})
	stocks.Add(&models.Stock{Symbol: "C", Type: models.StockCommon, ParValue: 100, Price: 8})

	mean, err := svc.GeometricMean()
	if err != nil {
		t.Fatalf("GeometricMean error: %v", err)
	}
	// The zero price drops out of both product and count: sqrt(2*8), not
	// cbrt(0*2*8).
	if !almostEqual(mean, 4) {
		t.Errorf("mean = %v, want 4", mean)
	}
}

func TestGeometricMeanNoValidPrices(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)

	_, err := svc.GeometricMean()
	if !errors.Is(err, apperrors.ErrNoValidPrices) {
		t.Fatalf("empty catalog: err = %v, want ErrNoValidPrices", err)
	}

	stocks.Add(&models.Stock{Symbol: "A", Type: models.StockCommon, ParValue: 100, Price: 0})
	_, err = svc.GeometricMean()
	if !errors.Is(err, apperrors.ErrNoValidPrices) {
		t.Fatalf("all-zero catalog: err = %v, want ErrNoValidPrices", err)
	}
}

func TestGeometricMeanWalksAllPages(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	// More than two internal pages, uniform price, so any dropped page
	// would still show up as a wrong count.
	for i := 0; i < 25; i++ {
		stocks.Add(&models.Stock{Symbol: fmt.Sprintf("S%02d", i), Type: models.StockCommon, ParValue: 100, Price: 5})
	}

	mean, err := svc.GeometricMean()
	if err != nil {
		t.Fatalf("GeometricMean error: %v", err)
	}
	if !almostEqual(mean, 5) {
		t.Errorf("mean = %v, want 5", mean)
	}
}

func TestUpdatePricesSkipsUnknownWithDiagnostic(t *testing.T) {
	now := testTime()
	clock := func() time.Time { return now }
	var logBuf bytes.Buffer
	stocks := store.NewStockStore()
	stocks.Add(&models.Stock{Symbol: "TEA", Type: models.StockCommon, ParValue: 100, Price: 34.42})
	svc := NewService(ServiceConfig{
		Stocks: stocks,
		Trades: store.NewTradeStoreWithClock(clock),
		Logger: zerolog.New(&logBuf),
		Clock:  clock,
	})

	svc.UpdatePrices(map[string]float64{"TEA": 35.0, "XXX": 99.0})

	if got := stocks.GetBySymbol("TEA").Price; got != 35.0 {
		t.Errorf("TEA price = %v, want 35.0", got)
	}
	if got := stocks.Count(); got != 1 {
		t.Errorf("catalog size = %d after update, want 1", got)
	}
	if !strings.Contains(logBuf.String(), "XXX") {
		t.Errorf("diagnostic log does not name the skipped symbol: %s", logBuf.String())
	}
}

func TestEndToEndScenario(t *testing.T) {
	now := testTime()
	svc, stocks := newTestService(&now)
	stocks.Add(&models.Stock{Symbol: "TEA", Type: models.StockCommon, LastDividend: 0, ParValue: 100, Price: 100})
	stocks.Add(&models.Stock{
		Symbol: "POP", Type: models.StockPreferred,
		LastDividend: 10, FixedDividendRatio: 0.035, ParValue: 100, Price: 47.48,
	})

	popYield, err := svc.DividendYield("POP")
	if err != nil {
		t.Fatalf("DividendYield(POP) error: %v", err)
	}
	if math.Abs(popYield-0.07371) > 1e-4 {
		t.Errorf("POP yield = %v, want ~0.07371", popYield)
	}

	svc.RecordTrade("1", "TEA", 1000, models.TradeBuy, 35)
	now = now.Add(5 * time.Minute)
	svc.RecordTrade("2", "TEA", 60000, models.TradeSell, 36)

	vwsp, err := svc.VolumeWeightedPrice("TEA", 15)
	if err != nil {
		t.Fatalf("VolumeWeightedPrice(TEA) error: %v", err)
	}
	if math.Abs(vwsp-35.98) > 1e-2 {
		t.Errorf("TEA vwsp = %v, want ~35.98", vwsp)
	}
}
