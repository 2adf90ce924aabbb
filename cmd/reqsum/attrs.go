package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseAttributes merges attributes from a YAML file and key=value
// arguments. A key may only be given once across both sources.
func parseAttributes(file string, args []string) (map[string]string, error) {
	attrs := make(map[string]string)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read attributes: %w", err)
		}

		if err := decodeAttributes(data, attrs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attribute %q: expected key=value", arg)
		}

		if _, dup := attrs[key]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", key)
		}

		attrs[key] = value
	}

	return attrs, nil
}

// decodeAttributes reads a flat YAML mapping into attrs. Scalars keep their
// literal text, so 007 stays "007" and 4.0 stays "4.0". Nested values are
// rejected.
func decodeAttributes(data []byte, attrs map[string]string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	// Empty document.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil
	}

	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attributes must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q must be a scalar", key.Line, key.Value)
		}

		if _, dup := attrs[key.Value]; dup {
			return fmt.Errorf("line %d: duplicate attribute %q", key.Line, key.Value)
		}

		if value.Tag == "!!null" {
			attrs[key.Value] = ""
			continue
		}

		attrs[key.Value] = value.Value
	}

	return nil
}
