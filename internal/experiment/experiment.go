// Package experiment loads experiment declarations and expands them into
// the ordered list of tasks a run must materialize.
package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Declaration is a parsed experiment file from the experiments pool.
type Declaration struct {
	Tasks    []string `yaml:"tasks"`              // task pool entries to materialize
	Configs  []string `yaml:"configs"`            // base config shards, applied in order
	Variants Variants `yaml:"variants,omitempty"` // named extra shard layers
	Evals    []string `yaml:"evals,omitempty"`    // evaluator pool entries to run per task
}

// Variant is one named extra layer of config shards applied on top of the
// base configs.
type Variant struct {
	Name   string
	Shards []string
}

// Variants keeps the order variants were declared in, which a plain Go
// map would lose. Expansion order depends on it.
type Variants []Variant

// UnmarshalYAML decodes the variants mapping into ordered entries.
func (v *Variants) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("variants must be a mapping of name to shard list")
	}
	out := make(Variants, 0, len(value.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid variant name: %w", err)
		}
		if seen[name] {
			return fmt.Errorf("duplicate variant %q", name)
		}
		seen[name] = true

		var shards []string
		if err := value.Content[i+1].Decode(&shards); err != nil {
			return fmt.Errorf("variant %q: %w", name, err)
		}
		out = append(out, Variant{Name: name, Shards: shards})
	}
	*v = out
	return nil
}

// Names returns the variant names in declaration order.
func (v Variants) Names() []string {
	names := make([]string, len(v))
	for i, variant := range v {
		names[i] = variant.Name
	}
	return names
}

// Load reads, parses and validates the declaration at path.
func Load(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment: %w", err)
	}

	var decl Declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := decl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	return &decl, nil
}

// Validate checks the declaration's internal consistency. Whether the
// referenced pool entries exist is checked separately against the pools.
func (d *Declaration) Validate() error {
	if len(d.Tasks) == 0 {
		return fmt.Errorf("no tasks defined")
	}
	seen := make(map[string]bool)
	for _, task := range d.Tasks {
		if task == "" {
			return fmt.Errorf("empty task name")
		}
		if seen[task] {
			return fmt.Errorf("duplicate task %q", task)
		}
		seen[task] = true
	}
	for _, shard := range d.Configs {
		if shard == "" {
			return fmt.Errorf("empty config name")
		}
	}
	for _, variant := range d.Variants {
		if variant.Name == "" {
			return fmt.Errorf("empty variant name")
		}
		for _, shard := range variant.Shards {
			if shard == "" {
				return fmt.Errorf("variant %q: empty config name", variant.Name)
			}
		}
	}
	return nil
}
