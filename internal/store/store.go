// Package store provides the in-memory repositories that own all market
// state: the stock catalog and the trade ledger. The repositories know
// nothing about each other or about the service layered on top of them.
package store

import "time"

// Clock supplies the current time. It is injectable so that trade
// timestamping and time-window filtering stay deterministic in tests.
type Clock func() time.Time
