package sysprop

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrInvalidDefine indicates a define could not be turned into a property.
	ErrInvalidDefine = errors.New("property define must have a non-empty key")
)

// Registry holds process-level properties and guards access with a RWMutex.
type Registry struct {
	mu    sync.RWMutex
	props map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{props: make(map[string]string)}
}

// Get returns the value stored for key and whether it was set.
func (r *Registry) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.props[key]
	return value, ok
}

// Set stores value under key, replacing any previous value.
func (r *Registry) Set(key, value string) {
	r.mu.Lock()
	r.props[key] = value
	r.mu.Unlock()
}

// Delete removes key from the registry.
func (r *Registry) Delete(key string) {
	r.mu.Lock()
	delete(r.props, key)
	r.mu.Unlock()
}

// Clear removes every property.
func (r *Registry) Clear() {
	r.mu.Lock()
	clear(r.props)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of every property. Writers that run
// while the caller iterates the copy are not observed.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.props))
	for k, v := range r.props {
		out[k] = v
	}
	return out
}

// ParseDefines applies "key=value" strings to the registry. A leading "-D" is
// accepted and stripped; a define without "=" sets the key to the empty string.
// Defines are validated before any of them is applied.
func (r *Registry) ParseDefines(defines []string) error {
	parsed := make([][2]string, 0, len(defines))
	for _, raw := range defines {
		key, value, err := parseDefine(raw)
		if err != nil {
			return err
		}
		parsed = append(parsed, [2]string{key, value})
	}

	r.mu.Lock()
	for _, kv := range parsed {
		r.props[kv[0]] = kv[1]
	}
	r.mu.Unlock()

	return nil
}

func parseDefine(raw string) (string, string, error) {
	define := strings.TrimPrefix(strings.TrimSpace(raw), "-D")
	key, value, _ := strings.Cut(define, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDefine, raw)
	}
	return key, value, nil
}
