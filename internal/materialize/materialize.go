// Package materialize layers directory trees onto a destination, deep
// merging structured files that collide and copying everything else.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/forge/internal/document"
)

// Reporter receives progress and diagnostic events while a tree is being
// applied. Events fire synchronously in traversal order.
type Reporter interface {
	document.Reporter

	// FileMerged fires after the structured file at path was deep merged
	// with the incoming copy instead of being overwritten.
	FileMerged(path string, format document.Format)

	// MergeFallback fires when a structured merge was abandoned and the
	// incoming bytes were copied over the destination instead.
	MergeFallback(path string, err error)
}

// Discard drops every event.
var Discard Reporter = discardReporter{}

type discardReporter struct{}

func (discardReporter) KeyOverwritten(string, *document.Node, *document.Node) {}
func (discardReporter) FileMerged(string, document.Format)                    {}
func (discardReporter) MergeFallback(string, error)                           {}

// ApplyTree applies every entry of srcDir into dstDir in lexical name
// order. dstDir must already exist.
func ApplyTree(srcDir, dstDir string, r Reporter) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", srcDir, err)
	}
	for _, entry := range entries {
		if err := Apply(filepath.Join(srcDir, entry.Name()), dstDir, r); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the file or directory at src into dstDir, keeping its base
// name. Directories are created as needed and recursed into. A structured
// file whose destination already holds a file of the same format is deep
// merged; every other collision is overwritten by the incoming bytes.
func Apply(src, dstDir string, r Reporter) error {
	if r == nil {
		r = Discard
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	dst := filepath.Join(dstDir, filepath.Base(src))
	if info.IsDir() {
		if err := os.MkdirAll(dst, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dst, err)
		}
		return ApplyTree(src, dst, r)
	}
	if format, ok := document.DetectFormat(src); ok {
		merged, err := mergeFile(src, dst, format, r)
		if merged || err != nil {
			return err
		}
	}
	return copyFile(src, dst, info.Mode())
}

// mergeFile deep merges src over an existing destination file and reports
// whether dst was written. When the destination does not exist, or either
// side fails to parse or the result fails to encode, it reports false so
// the caller falls back to a plain copy.
func mergeFile(src, dst string, format document.Format, r Reporter) (bool, error) {
	existing, err := os.ReadFile(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", dst, err)
	}
	incoming, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", src, err)
	}

	base, err := document.Parse(existing, format)
	if err != nil {
		r.MergeFallback(dst, err)
		return false, nil
	}
	overlay, err := document.Parse(incoming, format)
	if err != nil {
		r.MergeFallback(dst, err)
		return false, nil
	}

	merged := document.Merge(base, overlay, r)
	data, err := document.Serialize(merged, format)
	if err != nil {
		r.MergeFallback(dst, err)
		return false, nil
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	r.FileMerged(dst, format)
	return true, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, mode.Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	// WriteFile leaves an existing destination's mode alone; carry the
	// source mode across overwrites too.
	if err := os.Chmod(dst, mode.Perm()); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", dst, err)
	}
	return nil
}
