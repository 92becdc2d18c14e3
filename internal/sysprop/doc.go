// Package sysprop keeps the process-level property table that the Sentinel
// configuration overlays on top of file-loaded entries. Properties are set
// programmatically or from "-D key=value" command-line defines.
package sysprop
