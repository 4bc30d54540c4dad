// Package driver owns the collection of scroll instances and runs the
// per-frame loop that maps scroll position changes to property
// recomputations. It consumes the collaborator contracts from
// pkg/interfaces and stays agnostic of how values are ultimately applied.
package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scrollflux/scrollflux/pkg/instance"
	"github.com/scrollflux/scrollflux/pkg/interfaces"
	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

// DefaultResizeDebounce is the trailing delay applied to resize bursts
// before tracked instances are recalculated.
const DefaultResizeDebounce = 200 * time.Millisecond

// Options tunes driver behavior.
type Options struct {
	// ResizeDebounce overrides DefaultResizeDebounce when positive.
	ResizeDebounce time.Duration
	// Easings overrides the named easing table used during validation.
	Easings instance.Table
}

// Driver evaluates active instances once per frame whenever the scroll
// offset changed, and recalculates tracked instances after coalesced
// viewport resizes.
//
// All instance evaluation happens on the goroutine running Run; Create and
// the handle operations may be called from others and serialize against the
// loop through the driver's mutex.
type Driver struct {
	logger   *zap.Logger
	viewport interfaces.Viewport
	sink     interfaces.PropertySink
	frames   interfaces.FrameSource
	resizes  interfaces.ResizeSource
	debounce time.Duration
	easings  instance.Table

	mu         sync.Mutex
	instances  []*instance.Instance
	prevOffset float64
	seenOffset bool
}

// New assembles a driver from its collaborators. resizes may be nil, in
// which case no resize recalculation ever happens.
func New(logger *zap.Logger, viewport interfaces.Viewport, sink interfaces.PropertySink, frames interfaces.FrameSource, resizes interfaces.ResizeSource, opts Options) *Driver {
	debounce := opts.ResizeDebounce
	if debounce <= 0 {
		debounce = DefaultResizeDebounce
	}
	easings := opts.Easings
	if easings == nil {
		easings = instance.DefaultEasings()
	}
	return &Driver{
		logger:   logger.Named("scroll_driver"),
		viewport: viewport,
		sink:     sink,
		frames:   frames,
		resizes:  resizes,
		debounce: debounce,
		easings:  easings,
	}
}

// Handle is the caller-facing view of a created instance.
type Handle struct {
	d    *Driver
	inst *instance.Instance
}

// Start makes the instance eligible for per-frame evaluation.
func (h *Handle) Start() {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	h.inst.Start()
}

// Stop removes the instance from per-frame evaluation.
func (h *Handle) Stop() {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	h.inst.Stop()
}

// IsActive reports whether the instance is currently evaluated.
func (h *Handle) IsActive() bool {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	return h.inst.IsActive()
}

// Data returns the normalized instance.
func (h *Handle) Data() *instance.Instance { return h.inst }

// Create validates cfg against the current scroll offset and viewport
// height, evaluates and applies the new instance once, appends it to the
// list (initially inactive), and returns its handle.
func (d *Driver) Create(ctx context.Context, cfg instance.Config) (*Handle, error) {
	offset, err := d.viewport.ScrollOffset(ctx)
	if err != nil {
		return nil, fmt.Errorf("driver: read scroll offset: %w", err)
	}
	height, err := d.viewport.Height(ctx)
	if err != nil {
		return nil, fmt.Errorf("driver: read viewport height: %w", err)
	}

	inst, err := instance.Validate(cfg, offset, height, d.geometry(ctx), d.easings)
	if err != nil {
		return nil, err
	}

	// Evaluate before publishing to the list so the loop never races the
	// initial dispatch.
	p := inst.Evaluate(offset)
	d.apply(ctx, inst, p)

	d.mu.Lock()
	d.instances = append(d.instances, inst)
	d.mu.Unlock()

	d.logger.Debug("instance created",
		zap.String("instance_id", inst.ID()),
		zap.Float64("raw_percent", p.Raw),
		zap.Bool("tracked", inst.Tracked()))
	return &Handle{d: d, inst: inst}, nil
}

// Start activates every tracked instance in the list.
func (d *Driver) Start() {
	d.bulk(func(in *instance.Instance) { in.Start() })
}

// Stop deactivates every tracked instance in the list.
func (d *Driver) Stop() {
	d.bulk(func(in *instance.Instance) { in.Stop() })
}

func (d *Driver) bulk(op func(*instance.Instance)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, in := range d.instances {
		if in.Tracked() {
			op(in)
		}
	}
}

// Run drives the loop until ctx is cancelled: one unconditional iteration
// per frame tick, recomputing only when the scroll offset changed, plus
// trailing-debounced resize recalculation. It returns ctx.Err() on
// cancellation, so the loop is never leaked.
func (d *Driver) Run(ctx context.Context) error {
	var (
		debounceTimer *time.Timer
		debounceC     <-chan time.Time
	)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	var resizeC <-chan struct{}
	if d.resizes != nil {
		resizeC = d.resizes.Resizes()
	}

	d.logger.Info("scroll driver loop started", zap.Duration("resize_debounce", d.debounce))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("scroll driver loop stopped")
			return ctx.Err()

		case <-d.frames.Frames():
			d.tick(ctx)

		case _, ok := <-resizeC:
			if !ok {
				resizeC = nil
				continue
			}
			// Trailing debounce: every new signal cancels and restarts the
			// pending recalculation.
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(d.debounce)
			} else {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
				debounceTimer.Reset(d.debounce)
			}
			debounceC = debounceTimer.C

		case <-debounceC:
			debounceTimer = nil
			debounceC = nil
			d.recalculateTracked(ctx)
		}
	}
}

// tick performs one frame: read the offset, and if it moved since the last
// observation, evaluate every active instance in insertion order.
func (d *Driver) tick(ctx context.Context) {
	offset, err := d.viewport.ScrollOffset(ctx)
	if err != nil {
		d.logger.Warn("scroll offset query failed", zap.Error(err))
		return
	}

	d.mu.Lock()
	changed := !d.seenOffset || offset != d.prevOffset
	var active []*instance.Instance
	if changed {
		for _, in := range d.instances {
			if in.IsActive() {
				active = append(active, in)
			}
		}
		d.prevOffset = offset
		d.seenOffset = true
	}
	d.mu.Unlock()

	if !changed {
		return
	}
	for _, in := range active {
		p := in.Evaluate(offset)
		d.apply(ctx, in, p)
	}
}

// recalculateTracked re-resolves every tracked instance, active or not,
// against the post-resize scroll offset and viewport height.
func (d *Driver) recalculateTracked(ctx context.Context) {
	offset, err := d.viewport.ScrollOffset(ctx)
	if err != nil {
		d.logger.Warn("scroll offset query failed during recalculation", zap.Error(err))
		return
	}
	height, err := d.viewport.Height(ctx)
	if err != nil {
		d.logger.Warn("viewport height query failed during recalculation", zap.Error(err))
		return
	}

	d.mu.Lock()
	var tracked []*instance.Instance
	for _, in := range d.instances {
		if in.Tracked() {
			tracked = append(tracked, in)
		}
	}
	d.mu.Unlock()

	for _, in := range tracked {
		p, err := in.Recalculate(offset, height, d.geometry(ctx), d.easings)
		if err != nil {
			// One broken instance must not stall the rest.
			d.logger.Warn("instance recalculation failed",
				zap.String("instance_id", in.ID()), zap.Error(err))
			continue
		}
		d.apply(ctx, in, p)
	}

	d.logger.Debug("tracked instances recalculated",
		zap.Int("count", len(tracked)),
		zap.Float64("viewport_height", height))
}

func (d *Driver) geometry(ctx context.Context) instance.GeometryFunc {
	return func(selector string) (scrollval.Geometry, error) {
		return d.viewport.ElementGeometry(ctx, selector)
	}
}

func (d *Driver) apply(ctx context.Context, in *instance.Instance, p instance.Progress) {
	if d.sink == nil || len(p.Props) == 0 {
		return
	}
	if err := d.sink.Apply(ctx, in.Target(), p.Props); err != nil {
		d.logger.Warn("property application failed",
			zap.String("instance_id", in.ID()), zap.Error(err))
	}
}
