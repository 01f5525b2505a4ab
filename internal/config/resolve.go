package config

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Environment variables read by Resolve.
const (
	EnvDatabaseURL            = "DATABASE_URL"
	EnvDatabaseMinConnections = "DATABASE_MIN_CONNECTIONS"
	EnvDatabaseMaxConnections = "DATABASE_MAX_CONNECTIONS"
)

// Pool bound defaults used when the variable is absent.
const (
	DefaultMinConnections uint32 = 0
	DefaultMaxConnections uint32 = 100
)

// ConnectionConfig is everything needed to open a connection pool.
// It is built on every Resolve call and never cached.
type ConnectionConfig struct {
	URL            string
	MinConnections uint32
	MaxConnections uint32
}

// Resolve builds a ConnectionConfig from env. Lookups run url, max, min and
// the first failure is returned.
func Resolve(env Env) (ConnectionConfig, error) {
	url, err := ResolveURL(env)
	if err != nil {
		return ConnectionConfig{}, err
	}

	maxConns, err := ResolveMaxConnections(env)
	if err != nil {
		return ConnectionConfig{}, err
	}

	minConns, err := ResolveMinConnections(env)
	if err != nil {
		return ConnectionConfig{}, err
	}

	return ConnectionConfig{
		URL:            url,
		MinConnections: minConns,
		MaxConnections: maxConns,
	}, nil
}

// ResolveURL returns DATABASE_URL verbatim. A value that is not valid UTF-8
// is reported the same way as an unset one.
func ResolveURL(env Env) (string, error) {
	v, ok := env.Lookup(EnvDatabaseURL)
	if !ok || !utf8.ValidString(v) {
		return "", &VarError{Name: EnvDatabaseURL, Kind: ErrMissingConfig}
	}
	return v, nil
}

// ResolveMinConnections returns DATABASE_MIN_CONNECTIONS, or 0 when unset.
func ResolveMinConnections(env Env) (uint32, error) {
	return lookupUint32(env, EnvDatabaseMinConnections, DefaultMinConnections)
}

// ResolveMaxConnections returns the upper pool bound, or 100 when unset.
//
// It reads DATABASE_MIN_CONNECTIONS, not DATABASE_MAX_CONNECTIONS, so both
// bounds always come from the same variable. Deployments already depend on
// this; DATABASE_MAX_CONNECTIONS has no effect.
func ResolveMaxConnections(env Env) (uint32, error) {
	return lookupUint32(env, EnvDatabaseMinConnections, DefaultMaxConnections)
}

func lookupUint32(env Env, name string, def uint32) (uint32, error) {
	v, ok := env.Lookup(name)
	if !ok {
		return def, nil
	}
	if !utf8.ValidString(v) {
		return 0, &VarError{Name: name, Kind: ErrInvalidEncoding}
	}
	n, err := parseUint32(v)
	if err != nil {
		return 0, &VarError{Name: name, Kind: ErrInvalidNumber, Err: err}
	}
	return n, nil
}

// parseUint32 accepts an optional leading '+' followed by decimal digits.
// Surrounding whitespace is not trimmed.
func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
