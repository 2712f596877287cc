package redisx

import "time"

const (
	// Cached exchange rate: the raw locale string served by the quote API.
	KeyExchangeRate = "exchange:rate"
)

var (
	// TTLExchangeRate bounds staleness of the display-only rate.
	TTLExchangeRate = 1 * time.Hour
)
