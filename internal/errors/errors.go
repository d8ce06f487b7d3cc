// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrStockNotFound    = errors.New("stock not found")
	ErrInvalidStockType = errors.New("invalid stock type")
	ErrZeroDivisor      = errors.New("division by zero")
	ErrNoTrades         = errors.New("no trades in window")
	ErrNoValidPrices    = errors.New("no valid stock prices")
)

// MetricError represents a failure while computing a market metric.
// It wraps one of the sentinel errors so callers can match with errors.Is
// while still seeing which metric and symbol failed.
type MetricError struct {
	Metric string
	Symbol string
	Err    error
}

func (e *MetricError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("metric %s [%s]: %v", e.Metric, e.Symbol, e.Err)
	}
	return fmt.Sprintf("metric %s: %v", e.Metric, e.Err)
}

func (e *MetricError) Unwrap() error {
	return e.Err
}

// NewMetricError creates a new MetricError.
func NewMetricError(metric, symbol string, err error) *MetricError {
	return &MetricError{
		Metric: metric,
		Symbol: symbol,
		Err:    err,
	}
}
