// Package settings loads the tool's own runtime settings from multiple sources
// (YAML file, SENTINELCONF_* environment variables, CLI flags) with
// precedence: CLI flags > YAML file > Environment variables > Defaults.
package settings
