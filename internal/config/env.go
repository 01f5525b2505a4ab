package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Env looks up configuration variables by name.
type Env interface {
	Lookup(key string) (string, bool)
}

// EnvFunc adapts a lookup function such as os.LookupEnv to Env.
type EnvFunc func(key string) (string, bool)

// Lookup calls f(key).
func (f EnvFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// OSEnv reads the process environment.
var OSEnv Env = EnvFunc(os.LookupEnv)

// MapEnv is a fixed set of variables, mostly useful in tests.
type MapEnv map[string]string

// Lookup returns the value stored under key.
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// DotEnv reads one or more .env files without touching the process environment.
// Later files do not override keys already set by earlier ones.
func DotEnv(filenames ...string) (MapEnv, error) {
	merged := MapEnv{}
	for _, name := range filenames {
		vars, err := godotenv.Read(name)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

type layered []Env

func (l layered) Lookup(key string) (string, bool) {
	for _, env := range l {
		if env == nil {
			continue
		}
		if v, ok := env.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Layered returns an Env that consults envs in order and returns the first hit.
func Layered(envs ...Env) Env {
	return layered(envs)
}
