package instance

import "math"

// EasingFunc maps normalized progress t in [0,1] to an eased position,
// also in [0,1] at the endpoints.
type EasingFunc func(t float64) float64

// Table maps easing names to functions. Validate resolves names against a
// table exactly once, so evaluation never dispatches by name. Callers may
// substitute their own table; DefaultEasings is used when none is given.
type Table map[string]EasingFunc

// Linear is the identity easing, used whenever a property omits one.
func Linear(t float64) float64 { return t }

func easeInQuad(t float64) float64  { return t * t }
func easeOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func easeInCubic(t float64) float64  { return t * t * t }
func easeOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// easeInOutCubic provides a smooth acceleration and deceleration profile.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func easeInSine(t float64) float64    { return 1 - math.Cos(t*math.Pi/2) }
func easeOutSine(t float64) float64   { return math.Sin(t * math.Pi / 2) }
func easeInOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

// DefaultEasings returns a fresh table of the built-in easings.
func DefaultEasings() Table {
	return Table{
		"linear":            Linear,
		"ease-in-quad":      easeInQuad,
		"ease-out-quad":     easeOutQuad,
		"ease-in-out-quad":  easeInOutQuad,
		"ease-in-cubic":     easeInCubic,
		"ease-out-cubic":    easeOutCubic,
		"ease-in-out-cubic": easeInOutCubic,
		"ease-in-sine":      easeInSine,
		"ease-out-sine":     easeOutSine,
		"ease-in-out-sine":  easeInOutSine,
	}
}
