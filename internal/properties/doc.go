// Package properties loads flat string key/value configuration from bundled
// resources (classpath: paths) or the filesystem. Java .properties files are
// the primary format; YAML and TOML documents are flattened to dotted keys.
package properties
