package main

import (
	"fmt"
	"io"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/sentinelconf/internal/sentinelconfig"
)

func writeEntries(w io.Writer, store *sentinelconfig.Store, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(store.Snapshot()); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	default:
		p := properties.NewProperties()
		p.DisableExpansion = true
		for _, key := range store.Keys() {
			value, _ := store.Get(key)
			if _, _, err := p.Set(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
		if _, err := p.Write(w, properties.UTF8); err != nil {
			return fmt.Errorf("write properties: %w", err)
		}
		return nil
	}
}

func writeResult(w io.Writer, res sentinelconfig.Result, entries int) {
	fmt.Fprintf(w, "path:      %s\n", res.Source.Path)
	fmt.Fprintf(w, "origin:    %s\n", res.Source.Origin)
	fmt.Fprintf(w, "status:    %s\n", res.Status)
	fmt.Fprintf(w, "entries:   %d (file %d, overrides %d)\n", entries, res.FileEntries, len(res.Overrides))
	for _, o := range res.Overrides {
		fmt.Fprintf(w, "override:  %s: %s -> %s\n", o.Key, o.Old, o.New)
	}
	if res.Err != nil {
		fmt.Fprintf(w, "error:     %v\n", res.Err)
	}
}
