package properties

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return flatten(doc)
}

func parseTOML(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return flatten(doc)
}

// flatten turns nested tables into dotted keys so that
//
//	csp:
//	  sentinel:
//	    api.port: 8719
//
// becomes csp.sentinel.api.port=8719. Scalar sequences are joined with commas;
// sequences holding tables or sequences are expanded by index (hosts.0.name).
// Two paths that flatten to the same key are an error.
func flatten(doc map[string]any) (map[string]string, error) {
	out := make(map[string]string)
	if err := flattenInto(out, "", doc); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out map[string]string, prefix string, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flattenInto(out, joinKey(prefix, k), v[k]); err != nil {
				return err
			}
		}
		return nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[fmt.Sprint(k)] = child
		}
		return flattenInto(out, prefix, m)
	case []any:
		if !hasNested(v) {
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, scalar(item))
			}
			return put(out, prefix, strings.Join(parts, ","))
		}
		for i, item := range v {
			if err := flattenInto(out, joinKey(prefix, strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
		return nil
	default:
		if prefix == "" {
			return nil
		}
		return put(out, prefix, scalar(v))
	}
}

func put(out map[string]string, key, value string) error {
	if _, dup := out[key]; dup {
		return fmt.Errorf("key %q is defined more than once", key)
	}
	out[key] = value
	return nil
}

func hasNested(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case map[string]any, map[any]any, []any:
			return true
		}
	}
	return false
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
