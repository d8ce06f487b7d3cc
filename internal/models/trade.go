package models

import "time"

// TradeSide represents the direction of an executed trade.
type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// Trade represents one executed trade record. Trades are immutable once
// recorded: the ledger appends them in timestamp order and never mutates
// or removes them.
//
// ID is caller-supplied and not guaranteed unique by this layer. Symbol
// is expected to reference a catalog entry but is not validated here;
// the ledger stores what it is given.
type Trade struct {
	ID        string
	Symbol    string
	Quantity  int
	Side      TradeSide
	Price     float64
	Timestamp time.Time
}
