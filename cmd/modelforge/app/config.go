package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-openapi/inflect"
)

// loadAxes assembles the raw axis assignment for a run: the YAML config
// file (if any) overlaid with the --set flags. Axis names the registry
// does not know are rejected later, during validation.
func loadAxes(configFile string, sets map[string]string) (map[string]string, error) {
	raw := make(map[string]string, len(sets))
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configFile, err)
		}
	}
	for axis, value := range sets {
		raw[axis] = value
	}
	return raw, nil
}

// countNoun formats n with the correctly pluralized noun.
func countNoun(n int, noun string) string {
	if n != 1 {
		noun = inflect.Pluralize(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
