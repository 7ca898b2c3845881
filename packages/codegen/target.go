package codegen

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"
	"time"
)

var targets = map[string]*Target{
	"go":    Go,
	"junit": JUnit,
}

// Target renders a Suite in one output language.
type Target struct {
	Name     string
	FileName string // default output file name
	Source   string // text/template source executed with a *Suite
	FuncMap  template.FuncMap

	// Ident names a test function; Reserved lists names it must not take.
	Ident    func(test string) string
	Reserved []string

	// Format, when set, post-processes the rendered text.
	Format func([]byte) ([]byte, error)

	tmpl *template.Template
}

func (t *Target) build() *Target {
	t.tmpl = template.Must(template.New(t.Name).Funcs(t.FuncMap).Parse(t.Source))
	return t
}

// Render writes s in the target language.
func (t *Target) Render(w io.Writer, s *Suite) error {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, s); err != nil {
		return fmt.Errorf("rendering %s target: %w", t.Name, err)
	}
	out := buf.Bytes()
	if t.Format != nil {
		formatted, err := t.Format(out)
		if err != nil {
			return fmt.Errorf("formatting %s output: %w", t.Name, err)
		}
		out = formatted
	}
	_, err := w.Write(out)
	return err
}

// LookupTarget returns the target registered under name.
func LookupTarget(name string) (*Target, error) {
	t, ok := targets[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q (available: %s)", name, strings.Join(Targets(), ", "))
	}
	return t, nil
}

// Targets lists the registered target names in sorted order.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for k := range targets {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// splitDuration reports d in whole seconds when it has no fractional
// part and in milliseconds otherwise.
func splitDuration(d time.Duration) (n int64, unitSeconds bool) {
	if d%time.Second == 0 {
		return int64(d / time.Second), true
	}
	return d.Milliseconds(), false
}
