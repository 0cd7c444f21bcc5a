package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesetHeader is read first so a file can start from a built-in ruleset
// and override only the keys it lists.
type rulesetHeader struct {
	Base string `yaml:"base"`
}

// LoadRuleset reads, overlays and validates a ruleset YAML file.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	r, err := ParseRuleset(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return r, nil
}

// ParseRuleset decodes ruleset YAML on top of its base ruleset and validates it.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var header rulesetHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	r, err := Named(header.Base)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ResolveRuleset picks the ruleset for a binary: a file when path is set,
// otherwise the built-in one called name.
func ResolveRuleset(name, path string) (*Ruleset, error) {
	if path != "" {
		return LoadRuleset(path)
	}
	r, err := Named(name)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
