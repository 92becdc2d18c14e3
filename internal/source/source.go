package source

import (
	"os"
	"strings"

	"github.com/eugenenazirov/sentinelconf/internal/sysprop"
)

const (
	// PropertyKey names the process property that points at the config file.
	PropertyKey = "csp.sentinel.config.file"
	// EnvKey names the environment variable consulted when PropertyKey is blank.
	EnvKey = "CSP_SENTINEL_CONFIG_FILE"
	// DefaultPath is a bundled resource, not a filesystem location.
	DefaultPath = "classpath:sentinel.properties"
)

// Origin tells which candidate supplied the resolved path.
type Origin string

const (
	OriginProperty Origin = "property"
	OriginEnv      Origin = "env"
	OriginDefault  Origin = "default"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Path   string `json:"path"`
	Origin Origin `json:"origin"`
}

// LookupFunc reads a single named value and reports whether it was set.
type LookupFunc func(key string) (string, bool)

// Resolver picks the configuration file path: property, then environment,
// then DefaultPath. Nil lookups are treated as always unset.
type Resolver struct {
	Property LookupFunc
	Env      LookupFunc
}

// New returns a Resolver backed by the process-wide property registry and the
// process environment.
func New() *Resolver {
	return &Resolver{
		Property: sysprop.Get,
		Env:      os.LookupEnv,
	}
}

// Resolve returns the first non-blank candidate. It always yields a usable
// path.
func (r *Resolver) Resolve() Resolution {
	if value, ok := lookup(r.Property, PropertyKey); ok {
		return Resolution{Path: value, Origin: OriginProperty}
	}
	if value, ok := lookup(r.Env, EnvKey); ok {
		return Resolution{Path: value, Origin: OriginEnv}
	}
	return Resolution{Path: DefaultPath, Origin: OriginDefault}
}

// ResolvePath resolves using the process-wide sources.
func ResolvePath() string {
	return New().Resolve().Path
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func lookup(fn LookupFunc, key string) (string, bool) {
	if fn == nil {
		return "", false
	}
	value, ok := fn(key)
	if !ok || IsBlank(value) {
		return "", false
	}
	return value, true
}
