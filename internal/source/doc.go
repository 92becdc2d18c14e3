// Package source decides which file supplies the base Sentinel configuration.
// Precedence: process property csp.sentinel.config.file > environment variable
// CSP_SENTINEL_CONFIG_FILE > classpath:sentinel.properties.
package source
