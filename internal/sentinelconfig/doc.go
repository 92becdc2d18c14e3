// Package sentinelconfig resolves the effective Sentinel configuration once per
// process. Entries from the configuration file named by the source package are
// merged first, then every process property is overlaid on top, replacing file
// values for the same key. Initialization is best-effort: failures are logged
// and leave the store with whatever was merged before them.
//
// Applications can construct their own Loader and pass its Store around, or
// use the process-wide Properties accessor, which initializes lazily on first
// use. The sentinelconf binary uses the process-wide loader: it registers its
// bundled resources with SetDefaultResources and applies -D defines before
// the first access.
package sentinelconfig
