package exchange

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront.git/internal/redisx"
)

// RateCache serves the display-only exchange rate from Redis, populating
// it lazily from the API on a miss. Every failure mode reads as "no
// rate"; staleness never touches committed inventory state.
type RateCache struct {
	Client *Client
	Redis  *redis.Client
	TTL    time.Duration
}

func NewRateCache(client *Client, rdb *redis.Client, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = redisx.TTLExchangeRate
	}
	return &RateCache{Client: client, Redis: rdb, TTL: ttl}
}

func (rc *RateCache) Rate(ctx context.Context) (decimal.Decimal, bool) {
	raw, err := rc.Redis.Get(ctx, redisx.KeyExchangeRate).Result()
	if err != nil {
		raw, err = rc.Client.BuyRate(ctx)
		if err != nil {
			log.Printf("exchange rate fetch: %v", err)
			return decimal.Decimal{}, false
		}
		_ = rc.Redis.Set(ctx, redisx.KeyExchangeRate, raw, rc.TTL).Err()
	}

	rate, err := ParseRate(raw)
	if err != nil || rate.IsZero() {
		return decimal.Decimal{}, false
	}
	return rate, true
}
