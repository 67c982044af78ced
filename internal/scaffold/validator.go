package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/forge/internal/document"
	"github.com/dyluth/forge/internal/experiment"
	"github.com/dyluth/forge/internal/pool"
)

// CheckExisting reports an error naming the example entries a previous
// initialization left under root. The caller decides how to render it.
func CheckExisting(root string) error {
	var existing []string
	for _, rel := range examplePaths {
		if _, err := os.Stat(filepath.Join(root, rel)); err == nil {
			existing = append(existing, rel)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	errMsg := "found existing"
	if len(existing) == 1 {
		errMsg += fmt.Sprintf(": %s", existing[0])
	} else {
		errMsg += " entries:\n"
		for _, rel := range existing {
			errMsg += fmt.Sprintf("  - %s\n", rel)
		}
	}

	return fmt.Errorf("%s", errMsg)
}

// validateCreatedFiles checks that the example actually loads: the
// declaration must parse and validate, and both shard settings files
// must parse as structured documents.
func validateCreatedFiles(root string) error {
	declPath := filepath.Join(root, pool.ExperimentsDir, "example.yml")
	if _, err := experiment.Load(declPath); err != nil {
		return fmt.Errorf("created example.yml is not a valid experiment: %w", err)
	}

	for _, shard := range []string{"base", "verbose-logging"} {
		path := filepath.Join(root, pool.ShardsDir, shard, "settings.json")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read created %s: %w", path, err)
		}
		if _, err := document.Parse(data, document.FormatJSON); err != nil {
			return fmt.Errorf("created shard %s has invalid settings.json: %w", shard, err)
		}
	}
	return nil
}
