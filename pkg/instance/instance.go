// Package instance validates raw scroll-scene configurations into
// normalized instances and evaluates them: scroll offset in, raw and
// clamped progress plus interpolated property values out, with
// inside/outside transition callbacks fired on the way.
package instance

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

// Callback observes an evaluation of an instance. rawPercent is the
// unclamped progress; props are the computed values in config order.
type Callback func(in *Instance, rawPercent float64, props []PropValue)

// PropConfig declares one animated property of an instance. From and To
// must be absolute value expressions; relative anchors are only valid on
// the instance's scroll range.
type PropConfig struct {
	Name string
	From string
	To   string
	// Easing is nil for the identity function, a string resolved against
	// the easing table, or an EasingFunc used as-is.
	Easing any
}

// Config is the raw, caller-supplied description of an instance. Validate
// never mutates it; the instance retains it for later recalculation.
type Config struct {
	From string
	To   string
	// Element selects the anchor element used to resolve relative From/To
	// expressions and as the application target in direct mode.
	Element string
	// Direct selects where computed values are applied: nil or false for
	// the process-wide default target, true for the anchor element, or a
	// selector string for an explicit element.
	Direct any
	// Tracked marks the instance for automatic recalculation on viewport
	// resize. Nil defaults to true.
	Tracked *bool
	Props   []PropConfig
	Inside  Callback
	Outside Callback
}

// TargetKind tags the three ways a target can be resolved.
type TargetKind int

const (
	// TargetGlobal applies values to the process-wide default target.
	TargetGlobal TargetKind = iota
	// TargetSelf applies values to the instance's own anchor element.
	TargetSelf
	// TargetElement applies values to an explicitly selected element.
	TargetElement
)

// Target identifies where computed property values are applied. Applying
// them is the property sink's job, not this package's.
type Target struct {
	Kind TargetKind
	// Selector is set for TargetSelf and TargetElement.
	Selector string
}

// Property is a fully resolved animated property: absolute bounds and a
// concrete easing function.
type Property struct {
	Name   string
	From   scrollval.Value
	To     scrollval.Value
	Easing EasingFunc
}

// GeometryFunc queries the live geometry of the element named by selector.
type GeometryFunc func(selector string) (scrollval.Geometry, error)

// Instance is a validated, normalized configuration. Its fields are private
// on purpose: internal state is reachable only through accessors, and
// mutation happens only via Start, Stop, and Recalculate.
//
// An Instance does not synchronize itself. All evaluation is expected to
// happen on a single goroutine (the driver's loop); concurrent owners must
// serialize access.
type Instance struct {
	id      string
	raw     Config
	from    scrollval.Value
	to      scrollval.Value
	props   []Property
	target  Target
	tracked bool
	active  bool
	inside  Callback
	outside Callback
}

// Validate normalizes cfg against the current scroll offset and viewport
// height. Relative From/To expressions are resolved through geom at this
// moment; geom may be nil when no anchor element is configured. A nil
// easings table falls back to DefaultEasings.
func Validate(cfg Config, scrollOffset, viewportHeight float64, geom GeometryFunc, easings Table) (*Instance, error) {
	if easings == nil {
		easings = DefaultEasings()
	}

	inside := cfg.Inside
	if inside == nil {
		inside = func(*Instance, float64, []PropValue) {}
	}
	outside := cfg.Outside
	if outside == nil {
		outside = func(*Instance, float64, []PropValue) {}
	}
	tracked := true
	if cfg.Tracked != nil {
		tracked = *cfg.Tracked
	}

	if cfg.From == "" {
		return nil, &ValidationError{Kind: ErrMissingField, Field: "from", Reason: "a scroll range start is required"}
	}
	if cfg.To == "" {
		return nil, &ValidationError{Kind: ErrMissingField, Field: "to", Reason: "a scroll range end is required"}
	}

	target, err := resolveTarget(cfg)
	if err != nil {
		return nil, err
	}

	from, err := resolveBound("from", cfg.From, cfg.Element, scrollOffset, viewportHeight, geom)
	if err != nil {
		return nil, err
	}
	to, err := resolveBound("to", cfg.To, cfg.Element, scrollOffset, viewportHeight, geom)
	if err != nil {
		return nil, err
	}
	if from.Magnitude == to.Magnitude {
		return nil, &ValidationError{
			Kind:   ErrDegenerateRange,
			Field:  "to",
			Reason: fmt.Sprintf("from and to both resolve to %s; the scroll range must span a distance", scrollval.Format(to.Magnitude, to.Unit)),
		}
	}

	props := make([]Property, 0, len(cfg.Props))
	for i, pc := range cfg.Props {
		field := fmt.Sprintf("props[%d]", i)
		if pc.Name == "" {
			return nil, &ValidationError{Kind: ErrMissingField, Field: field + ".name", Reason: "a property name is required"}
		}
		pFrom, perr := parsePropBound(field+".from", pc.From)
		if perr != nil {
			return nil, perr
		}
		pTo, perr := parsePropBound(field+".to", pc.To)
		if perr != nil {
			return nil, perr
		}
		fn, perr := resolveEasing(field+".easing", pc.Easing, easings)
		if perr != nil {
			return nil, perr
		}
		props = append(props, Property{Name: pc.Name, From: pFrom, To: pTo, Easing: fn})
	}

	return &Instance{
		id:      uuid.NewString(),
		raw:     cfg,
		from:    from,
		to:      to,
		props:   props,
		target:  target,
		tracked: tracked,
		inside:  inside,
		outside: outside,
	}, nil
}

func resolveTarget(cfg Config) (Target, error) {
	switch d := cfg.Direct.(type) {
	case nil:
		return Target{Kind: TargetGlobal}, nil
	case bool:
		if !d {
			return Target{Kind: TargetGlobal}, nil
		}
		if cfg.Element == "" {
			return Target{}, &ValidationError{Kind: ErrMissingAnchorElement, Field: "direct", Reason: "direct mode applies values to the anchor element, but none is configured"}
		}
		return Target{Kind: TargetSelf, Selector: cfg.Element}, nil
	case string:
		if d == "" {
			return Target{}, &ValidationError{Kind: ErrInvalidType, Field: "direct", Reason: "an explicit target selector must be non-empty"}
		}
		return Target{Kind: TargetElement, Selector: d}, nil
	default:
		return Target{}, &ValidationError{Kind: ErrInvalidType, Field: "direct", Reason: fmt.Sprintf("want bool or selector string, got %T", cfg.Direct)}
	}
}

func resolveBound(field, expr, element string, scrollOffset, viewportHeight float64, geom GeometryFunc) (scrollval.Value, error) {
	switch {
	case scrollval.IsAbsolute(expr):
		v, err := scrollval.ParseAbsolute(expr)
		if err != nil {
			return scrollval.Value{}, &ValidationError{Kind: ErrInvalidValueSyntax, Field: field, Reason: err.Error()}
		}
		return v, nil
	case scrollval.IsRelative(expr):
		if element == "" {
			return scrollval.Value{}, &ValidationError{
				Kind:   ErrInvalidValueSyntax,
				Field:  field,
				Reason: fmt.Sprintf("relative expression %q requires an anchor element", expr),
			}
		}
		if geom == nil {
			return scrollval.Value{}, fmt.Errorf("resolve %s: no geometry source for element %q", field, element)
		}
		g, err := geom(element)
		if err != nil {
			return scrollval.Value{}, fmt.Errorf("resolve %s: geometry of %q: %w", field, element, err)
		}
		off, err := scrollval.ResolveRelative(expr, g, scrollOffset, viewportHeight)
		if err != nil {
			return scrollval.Value{}, &ValidationError{Kind: ErrInvalidValueSyntax, Field: field, Reason: err.Error()}
		}
		return scrollval.Value{Magnitude: off, Unit: "px"}, nil
	default:
		return scrollval.Value{}, &ValidationError{
			Kind:   ErrInvalidValueSyntax,
			Field:  field,
			Reason: fmt.Sprintf("%q is neither an absolute measurement nor an anchor pair", expr),
		}
	}
}

// parsePropBound parses a property bound, which never supports relative
// anchor syntax.
func parsePropBound(field, expr string) (scrollval.Value, error) {
	if !scrollval.IsAbsolute(expr) {
		return scrollval.Value{}, &ValidationError{
			Kind:   ErrInvalidValueSyntax,
			Field:  field,
			Reason: fmt.Sprintf("property bounds must be absolute, got %q", expr),
		}
	}
	v, err := scrollval.ParseAbsolute(expr)
	if err != nil {
		return scrollval.Value{}, &ValidationError{Kind: ErrInvalidValueSyntax, Field: field, Reason: err.Error()}
	}
	return v, nil
}

func resolveEasing(field string, choice any, easings Table) (EasingFunc, error) {
	switch e := choice.(type) {
	case nil:
		return Linear, nil
	case string:
		fn, ok := easings[e]
		if !ok {
			return nil, &ValidationError{Kind: ErrUnknownEasing, Field: field, Reason: fmt.Sprintf("no easing named %q in the table", e)}
		}
		return fn, nil
	case EasingFunc:
		return e, nil
	case func(float64) float64:
		return e, nil
	default:
		return nil, &ValidationError{Kind: ErrInvalidType, Field: field, Reason: fmt.Sprintf("want easing name or function, got %T", choice)}
	}
}

// ID returns the instance's generated identifier.
func (in *Instance) ID() string { return in.id }

// From returns the resolved start of the scroll range.
func (in *Instance) From() scrollval.Value { return in.from }

// To returns the resolved end of the scroll range.
func (in *Instance) To() scrollval.Value { return in.to }

// Target returns where computed values should be applied.
func (in *Instance) Target() Target { return in.target }

// Tracked reports whether the instance is recalculated on viewport resize.
func (in *Instance) Tracked() bool { return in.tracked }

// IsActive reports whether the instance is evaluated by the per-frame loop.
func (in *Instance) IsActive() bool { return in.active }

// Start makes the instance eligible for per-frame evaluation.
func (in *Instance) Start() { in.active = true }

// Stop removes the instance from per-frame evaluation. It stays in the
// owning driver's list and can be started again.
func (in *Instance) Stop() { in.active = false }

// Properties returns the resolved animated properties in config order.
func (in *Instance) Properties() []Property { return in.props }

// Recalculate re-runs validation against the instance's original raw
// configuration, re-resolving any relative expressions, then evaluates once
// at the given offset. Identity and activity state are preserved. Usable
// regardless of activity; typically invoked for tracked instances after a
// viewport resize.
func (in *Instance) Recalculate(scrollOffset, viewportHeight float64, geom GeometryFunc, easings Table) (Progress, error) {
	fresh, err := Validate(in.raw, scrollOffset, viewportHeight, geom, easings)
	if err != nil {
		return Progress{}, err
	}
	in.from = fresh.from
	in.to = fresh.to
	in.props = fresh.props
	in.target = fresh.target
	in.tracked = fresh.tracked
	return in.Evaluate(scrollOffset), nil
}
