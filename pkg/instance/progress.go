package instance

import (
	"math"

	"github.com/scrollflux/scrollflux/pkg/scrollval"
)

// PropValue is one computed output value, already rounded and formatted
// with its inherited unit.
type PropValue struct {
	Name  string
	Value string
}

// Progress is the result of evaluating an instance at a scroll offset.
//
// Raw may exceed [0,100] and is what decides inside/outside transitions;
// Clamped is bounded and is what drives interpolation. Clamping exists only
// to keep output values stable at the range edges, never for detection.
type Progress struct {
	Raw     float64
	Clamped float64
	Props   []PropValue
}

// Inside reports whether Raw lies within the scroll range. The boundary
// values 0 and 100 count as inside.
func (p Progress) Inside() bool { return p.Raw >= 0 && p.Raw <= 100 }

// ComputeProgress evaluates the instance at scrollOffset without firing
// callbacks. It is pure: no instance state changes.
func (in *Instance) ComputeProgress(scrollOffset float64) Progress {
	total := in.to.Magnitude - in.from.Magnitude
	current := scrollOffset - in.from.Magnitude
	raw := current / (total / 100)
	clamped := math.Min(100, math.Max(0, raw))

	props := make([]PropValue, 0, len(in.props))
	for _, p := range in.props {
		// The from-unit wins; a unitless from inherits the to-unit, so
		// animating "0" to "100px" stays in pixels throughout.
		unit := p.From.Unit
		if unit == "" {
			unit = p.To.Unit
		}
		diff := p.From.Magnitude - p.To.Magnitude
		t := p.Easing(clamped / 100)
		value := p.From.Magnitude - diff*t
		props = append(props, PropValue{Name: p.Name, Value: scrollval.Format(value, unit)})
	}

	return Progress{Raw: raw, Clamped: clamped, Props: props}
}

// Evaluate computes progress and fires exactly one of the inside/outside
// callbacks, synchronously, with the raw percent and the computed props.
func (in *Instance) Evaluate(scrollOffset float64) Progress {
	p := in.ComputeProgress(scrollOffset)
	if p.Inside() {
		in.inside(in, p.Raw, p.Props)
	} else {
		in.outside(in, p.Raw, p.Props)
	}
	return p
}
