package instance

import "fmt"

// ErrorKind discriminates validation failures so callers can branch on the
// class of problem without parsing messages.
type ErrorKind int

const (
	// ErrMissingField marks a required config field that was absent.
	ErrMissingField ErrorKind = iota
	// ErrInvalidType marks a field holding a value of an unsupported type.
	ErrInvalidType
	// ErrInvalidValueSyntax marks a value expression that cannot be used in
	// its position, e.g. a relative bound without an anchor element.
	ErrInvalidValueSyntax
	// ErrUnknownEasing marks a named easing missing from the table.
	ErrUnknownEasing
	// ErrMissingAnchorElement marks direct mode requested without an anchor
	// element to apply values to.
	ErrMissingAnchorElement
	// ErrDegenerateRange marks from and to resolving to the same offset,
	// which would make progress undefined.
	ErrDegenerateRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingField:
		return "missing field"
	case ErrInvalidType:
		return "invalid type"
	case ErrInvalidValueSyntax:
		return "invalid value syntax"
	case ErrUnknownEasing:
		return "unknown easing"
	case ErrMissingAnchorElement:
		return "missing anchor element"
	case ErrDegenerateRange:
		return "degenerate range"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// ValidationError is a synchronous, fatal failure of Validate. No partial
// instance accompanies it.
type ValidationError struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("instance config: %s: %s: %s", e.Field, e.Kind, e.Reason)
}
