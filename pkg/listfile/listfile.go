// Package listfile loads ordered string lists (glob patterns, exclusion
// keys) from PHP, YAML, JSON or TOML files.
package listfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/fulmenhq/ncreg/pkg/phpliteral"
	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/go-git/go-billy/v5"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported list file format")

// ListKeys are the mapping keys accepted when a structured file wraps its
// list in an object instead of using a top-level array.
var ListKeys = []string{"entries", "patterns", "exclude"}

// Load reads name from fsys and decodes it by extension.
func Load(fsys billy.Basic, name string) ([]string, error) {
	data, err := safeio.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	list, err := Decode(Format(name), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return list, nil
}

// Format maps a file name to its decoder name.
func Format(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".php":
		return "php"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

// Decode parses data in the given format.
func Decode(format string, data []byte) ([]string, error) {
	switch format {
	case "php":
		return phpliteral.ParseReturn(data)
	case "yaml":
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return fromValue(raw)
	case "json":
		var raw interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return fromValue(raw)
	case "toml":
		raw := map[string]interface{}{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
		return fromValue(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func fromValue(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []interface{}:
		return toStrings(v)
	case map[string]interface{}:
		for _, key := range ListKeys {
			if inner, ok := v[key]; ok {
				items, ok := inner.([]interface{})
				if !ok {
					return nil, fmt.Errorf("key %q must be a list of strings", key)
				}
				return toStrings(items)
			}
		}
		return nil, fmt.Errorf("expected a list or one of the keys %s", strings.Join(ListKeys, ", "))
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", raw)
	}
}

func toStrings(items []interface{}) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("item %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
