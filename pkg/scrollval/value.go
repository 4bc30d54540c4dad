// Package scrollval parses and resolves the value expressions used to
// describe scroll ranges and animated property bounds. Two syntaxes exist:
// absolute measurements ("100", "-13.5px", "80%") and relative anchor pairs
// ("top-bottom") that are resolved against live element geometry.
package scrollval

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Value is a parsed measurement: a numeric magnitude plus an optional unit
// suffix. An empty unit means unitless (treated as pixels downstream).
type Value struct {
	Magnitude float64
	Unit      string
}

// Geometry describes an element's box at evaluation time. Top is the offset
// of the element's top edge relative to the viewport, not the document, so
// callers must query it live rather than cache it.
type Geometry struct {
	Top    float64
	Height float64
}

// Anchor names a reference point on an element or the viewport.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorMiddle Anchor = "middle"
	AnchorBottom Anchor = "bottom"
)

var (
	absoluteRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)([a-z%]*)$`)
	relativeRe = regexp.MustCompile(`^[a-z]+-[a-z]+$`)
)

// IsAbsolute reports whether expr parses as a numeric magnitude with an
// optional unit suffix.
func IsAbsolute(expr string) bool {
	return absoluteRe.MatchString(strings.TrimSpace(expr))
}

// IsRelative reports whether expr is an anchor pair: two lowercase tokens
// joined by a hyphen. Token validity is checked later, in ResolveRelative.
func IsRelative(expr string) bool {
	return relativeRe.MatchString(strings.TrimSpace(expr))
}

// ParseAbsolute parses an absolute expression into a Value.
func ParseAbsolute(expr string) (Value, error) {
	m := absoluteRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return Value{}, fmt.Errorf("scrollval: %q is not an absolute value expression", expr)
	}
	mag, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Value{}, fmt.Errorf("scrollval: magnitude of %q: %w", expr, err)
	}
	return Value{Magnitude: mag, Unit: m[2]}, nil
}

// ResolveRelative resolves an anchor pair to an absolute document offset in
// pixels. The first token anchors on the element, the second on the
// viewport: scrolling to the resulting offset aligns the two anchors.
func ResolveRelative(expr string, geom Geometry, scrollOffset, viewportHeight float64) (float64, error) {
	parts := strings.SplitN(strings.TrimSpace(expr), "-", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("scrollval: %q is not a relative anchor expression", expr)
	}

	var elem float64
	switch Anchor(parts[0]) {
	case AnchorTop:
		elem = geom.Top + scrollOffset
	case AnchorMiddle:
		elem = geom.Top + scrollOffset + geom.Height/2
	case AnchorBottom:
		elem = geom.Top + scrollOffset + geom.Height
	default:
		return 0, fmt.Errorf("scrollval: unknown element anchor %q in %q", parts[0], expr)
	}

	var view float64
	switch Anchor(parts[1]) {
	case AnchorTop:
		view = 0
	case AnchorMiddle:
		view = -viewportHeight / 2
	case AnchorBottom:
		view = -viewportHeight
	default:
		return 0, fmt.Errorf("scrollval: unknown viewport anchor %q in %q", parts[1], expr)
	}

	return elem + view, nil
}

// Round limits v to at most 4 fractional digits.
func Round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Format renders a rounded magnitude with its unit, e.g. "33.3333px".
// Trailing zeros are dropped, so Format(0, "px") is "0px".
func Format(v float64, unit string) string {
	return strconv.FormatFloat(Round(v), 'f', -1, 64) + unit
}
