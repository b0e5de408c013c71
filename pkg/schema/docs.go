package schema

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CodeSample is an x-code-samples entry attached to an operation.
type CodeSample struct {
	Lang   string `yaml:"lang"`
	Label  string `yaml:"label"`
	Source string `yaml:"source"`
}

// Override carries hand-written documentation for one view method, loaded
// from YAML:
//
//	TransactionListView:
//	  GET:
//	    operationId: listTransactions
//	    summary: List transactions
//	    description: ...
//	    x-code-samples:
//	      - lang: shell
//	        label: curl
//	        source: ...
type Override struct {
	OperationID string       `yaml:"operationId"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Deprecated  bool         `yaml:"deprecated"`
	CodeSamples []CodeSample `yaml:"x-code-samples"`
}

// Docs holds documentation overrides collected from *.yaml files. Later
// files override earlier ones per view key.
type Docs struct {
	entries map[string]map[string]Override
	logger  *slog.Logger
}

// NewDocs reads every *.yaml file under dirs. Missing directories and
// unparseable files are logged and skipped; loading never fails.
func NewDocs(logger *slog.Logger, dirs ...string) *Docs {
	d := &Docs{entries: map[string]map[string]Override{}, logger: logger}
	for _, dir := range dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			logger.Info("docs directory not found", "dir", dir)
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
				continue
			}
			d.load(filepath.Join(dir, f.Name()))
		}
	}
	return d
}

func (d *Docs) load(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		d.logger.Info("docs file unreadable", "path", path, "error", err)
		return
	}
	var doc map[string]map[string]Override
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		d.logger.Info("docs file unparseable", "path", path, "error", err)
		return
	}
	for view, methods := range doc {
		d.entries[view] = methods
	}
}

// Lookup returns the override for a view method, if any.
func (d *Docs) Lookup(view, method string) (Override, bool) {
	methods, ok := d.entries[view]
	if !ok {
		return Override{}, false
	}
	o, ok := methods[method]
	return o, ok
}

// Apply merges the overrides for view onto each operation. Set fields win;
// unset fields keep the described values.
func (d *Docs) Apply(view string, ops []Operation) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		if o, ok := d.Lookup(view, op.Method); ok {
			if o.OperationID != "" {
				op.OperationID = o.OperationID
			}
			if o.Summary != "" {
				op.Summary = o.Summary
			}
			if o.Description != "" {
				op.Description = o.Description
			}
			if o.Deprecated {
				op.Deprecated = true
			}
			if len(o.CodeSamples) > 0 {
				op.CodeSamples = o.CodeSamples
			}
		}
		out[i] = op
	}
	return out
}
