// Package interfaces defines the collaborator contracts the scroll driver
// consumes. The host environment supplies implementations; pkg/browser
// provides the chromedp-backed ones used by the CLI, and tests substitute
// fakes.
package interfaces

import (
	"context"
	"time"

	"github.com/scrollflux/scrollflux/pkg/instance"
	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

// Viewport exposes live measurements of the scrolling context. None of the
// values may be cached by the implementation beyond what the underlying
// environment already guarantees: the driver relies on fresh reads for
// change detection and geometry resolution.
type Viewport interface {
	// ScrollOffset returns the current offset along the scroll axis.
	ScrollOffset(ctx context.Context) (float64, error)
	// Height returns the current viewport height.
	Height(ctx context.Context) (float64, error)
	// ElementGeometry returns the box of the element named by selector,
	// with Top relative to the viewport at call time.
	ElementGeometry(ctx context.Context, selector string) (scrollval.Geometry, error)
}

// PropertySink applies computed values to a resolved target as a side
// effect, e.g. as inline styles. The driver invokes it after every
// recomputation of an active instance.
type PropertySink interface {
	Apply(ctx context.Context, target instance.Target, props []instance.PropValue) error
}

// FrameSource delivers one tick per display frame. The channel stays open
// for the lifetime of the source; the driver's loop runs until its context
// is cancelled, never because frames stop.
type FrameSource interface {
	Frames() <-chan time.Time
}

// ResizeSource signals viewport size changes. Bursts are expected; the
// driver coalesces them with a trailing debounce before recalculating.
type ResizeSource interface {
	Resizes() <-chan struct{}
}
