package harvest

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayRange is a politeness window: each Wait pauses for a duration drawn
// uniformly from [Min, Max].
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// Wait blocks the calling goroutine for a random duration within the range,
// returning early if the context finishes.
func (r DelayRange) Wait(ctx context.Context) {
	pause(ctx, r.pick())
}

func (r DelayRange) pick() time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.N(r.Max-r.Min)
}
