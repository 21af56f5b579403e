package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"marketwatch/internal/market"
)

// TokenBucket allows perMinute calls per minute with bursts of up to burst
// calls. The bucket starts full. perMinute <= 0 disables the gate.
func TokenBucket(next market.Source, perMinute, burst int) *Source {
	if perMinute <= 0 {
		return Wrap(next, nil)
	}
	if burst <= 0 {
		burst = 1
	}
	return Wrap(next, rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst))
}
