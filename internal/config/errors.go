package config

import "errors"

// ErrMissingConfig is returned when a required variable is not set.
var ErrMissingConfig = errors.New("missing configuration")

// ErrInvalidEncoding is returned when a variable is set but is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid encoding")

// ErrInvalidNumber is returned when a numeric variable does not parse.
var ErrInvalidNumber = errors.New("invalid number")

// ErrConnection marks failures reported by the database client itself.
// database.ErrConnect is the same value.
var ErrConnection = errors.New("database connection failed")

// Kind classifies an error into the closed set of failures this module reports.
type Kind int

const (
	KindNone Kind = iota
	KindMissingConfig
	KindInvalidEncoding
	KindInvalidNumber
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingConfig:
		return "missing_config"
	case KindInvalidEncoding:
		return "invalid_encoding"
	case KindInvalidNumber:
		return "invalid_number"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// KindOf reports which Kind err belongs to. Anything outside the config
// sentinels is a connection failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingConfig):
		return KindMissingConfig
	case errors.Is(err, ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, ErrInvalidNumber):
		return KindInvalidNumber
	default:
		return KindConnection
	}
}

// VarError describes a problem with a single environment variable.
type VarError struct {
	Name string
	Kind error // ErrMissingConfig, ErrInvalidEncoding or ErrInvalidNumber
	Err  error // parse error, if any
}

func (e *VarError) Error() string {
	switch e.Kind {
	case ErrMissingConfig:
		return e.Name + " is not set"
	case ErrInvalidEncoding:
		return e.Name + " is not unicode"
	case ErrInvalidNumber:
		return e.Name + " must be a number"
	default:
		return e.Name + ": " + e.Kind.Error()
	}
}

func (e *VarError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
