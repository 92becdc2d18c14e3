package sentinelconfig

import "github.com/eugenenazirov/sentinelconf/internal/source"

// Status summarizes how far initialization got.
type Status string

const (
	// StatusComplete means every step ran. The file may still have been absent.
	StatusComplete Status = "complete"
	// StatusPartial means the file step finished but the property overlay did not.
	StatusPartial Status = "partial"
	// StatusFailed means nothing from the file was merged.
	StatusFailed Status = "failed"
)

// Override records a process property replacing an existing value.
type Override struct {
	Key string `json:"key"`
	Old string `json:"old"`
	New string `json:"new"`
}

// Result describes one initialization run. It is informational only; the
// store is usable whatever the status.
type Result struct {
	Status      Status
	Source      source.Resolution
	FileEntries int
	Overrides   []Override
	Err         error
}
