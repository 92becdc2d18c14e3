package sysprop

var std = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return std
}

// Get reads a property from the process-wide registry.
func Get(key string) (string, bool) {
	return std.Get(key)
}

// Set writes a property to the process-wide registry.
func Set(key, value string) {
	std.Set(key, value)
}

// Delete removes a property from the process-wide registry.
func Delete(key string) {
	std.Delete(key)
}

// Snapshot copies the process-wide registry.
func Snapshot() map[string]string {
	return std.Snapshot()
}

// ParseDefines applies defines to the process-wide registry.
func ParseDefines(defines []string) error {
	return std.ParseDefines(defines)
}
