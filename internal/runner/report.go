package runner

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/dyluth/forge/internal/document"
	"github.com/dyluth/forge/internal/materialize"
)

// logReporter routes materialization diagnostics through the process
// log, the same sink the rest of the run reports to.
type logReporter struct{}

func (logReporter) KeyOverwritten(key string, old, replacement *document.Node) {
	log.Printf("[WARN] Overwriting key %q from %s to %s during merge", key, old, replacement)
}

func (logReporter) FileMerged(path string, format document.Format) {
	log.Printf("[INFO] Deep merged %s file: %s", strings.ToUpper(string(format)), filepath.Base(path))
}

func (logReporter) MergeFallback(path string, err error) {
	log.Printf("[WARN] Failed to merge %s: %v. Falling back to overwrite.", filepath.Base(path), err)
}

func (r *Runner) reporter() materialize.Reporter {
	if r.Reporter != nil {
		return r.Reporter
	}
	return logReporter{}
}
