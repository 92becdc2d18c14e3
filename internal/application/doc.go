// Package application wires the resolved Sentinel configuration into the
// read-only inspection API: handler, router and HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
