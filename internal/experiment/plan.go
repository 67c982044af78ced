package experiment

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Task is one planned unit of work: a single task directory materialized
// for a single variant, or for none.
type Task struct {
	Name    string   `json:"task"`              // entry in the task pool
	Variant string   `json:"variant,omitempty"` // empty when the experiment has no variants
	Shards  []string `json:"shards"`            // config shards to apply in order
	Dir     string   `json:"dir"`               // destination relative to the run root
}

// Label renders the task for user-facing progress output.
func (t Task) Label() string {
	if t.Variant == "" {
		return t.Name
	}
	return fmt.Sprintf("%s with variant %s", t.Name, t.Variant)
}

// VariantError reports a variant filter the declaration cannot satisfy.
type VariantError struct {
	Variant  string
	Declared []string // nil when the declaration has no variants at all
}

func (e *VariantError) Error() string {
	if len(e.Declared) == 0 {
		return fmt.Sprintf("variant %q requested but experiment declares no variants", e.Variant)
	}
	return fmt.Sprintf("variant %q not found in experiment (available variants: %s)",
		e.Variant, strings.Join(e.Declared, ", "))
}

// Plan expands the declaration into the ordered task list: tasks in
// declaration order outermost, variants in declaration order within each
// task. Each planned task's shard list is the base configs followed by
// its variant's shards.
//
// A non-empty variantFilter narrows the plan to that single variant. It
// is an error when the experiment declares no variants or does not
// declare the requested one; the error lists what is declared.
func Plan(decl *Declaration, variantFilter string) ([]Task, error) {
	// A variant-free experiment plans one unnamed layer per task.
	expansion := Variants{{}}
	if len(decl.Variants) > 0 {
		expansion = decl.Variants
		if variantFilter != "" {
			selected, ok := decl.Variants.find(variantFilter)
			if !ok {
				return nil, &VariantError{Variant: variantFilter, Declared: decl.Variants.Names()}
			}
			expansion = Variants{selected}
		}
	} else if variantFilter != "" {
		return nil, &VariantError{Variant: variantFilter}
	}

	tasks := make([]Task, 0, len(decl.Tasks)*len(expansion))
	for _, name := range decl.Tasks {
		for _, variant := range expansion {
			dir := name
			if variant.Name != "" {
				dir = name + "_" + variant.Name
			}
			shards := make([]string, 0, len(decl.Configs)+len(variant.Shards))
			shards = append(shards, decl.Configs...)
			shards = append(shards, variant.Shards...)
			tasks = append(tasks, Task{
				Name:    name,
				Variant: variant.Name,
				Shards:  shards,
				Dir:     filepath.Join("tasks", dir),
			})
		}
	}
	return tasks, nil
}

func (v Variants) find(name string) (Variant, bool) {
	for _, variant := range v {
		if variant.Name == name {
			return variant, true
		}
	}
	return Variant{}, false
}
