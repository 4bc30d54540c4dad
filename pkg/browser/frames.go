package browser

import (
	"time"

	"github.com/scrollflux/scrollflux/pkg/interfaces"
)

// DefaultFrameInterval approximates a 60Hz repaint cadence.
const DefaultFrameInterval = 16 * time.Millisecond

var _ interfaces.FrameSource = (*FrameTicker)(nil)

// FrameTicker is a FrameSource backed by a fixed-interval ticker, the
// closest CDP equivalent of a repeatable before-repaint callback.
type FrameTicker struct {
	ticker *time.Ticker
}

// NewFrameTicker starts a ticker at the given interval, or
// DefaultFrameInterval when it is not positive.
func NewFrameTicker(interval time.Duration) *FrameTicker {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameTicker{ticker: time.NewTicker(interval)}
}

// Frames returns the tick channel.
func (f *FrameTicker) Frames() <-chan time.Time { return f.ticker.C }

// Stop halts the ticker. The channel is not closed; the driver's loop exits
// via context cancellation, not channel closure.
func (f *FrameTicker) Stop() { f.ticker.Stop() }
