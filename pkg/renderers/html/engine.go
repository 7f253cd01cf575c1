package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const sanitizeFilter = "formflow_sanitize"

var registerFiltersOnce sync.Once

// engine wraps a pongo2 template set and caches parsed templates by path.
type engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

func newEngine(files fs.FS, globals pongo2.Context) (*engine, error) {
	if files == nil {
		return nil, errors.New("html: templates fs is nil")
	}
	registerFiltersOnce.Do(registerFilters)

	set := pongo2.NewSet("formflow", pongo2.NewFSLoader(files))
	if set.Globals == nil {
		set.Globals = make(pongo2.Context)
	}
	set.Globals.Update(globals)

	return &engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
	}, nil
}

func registerFilters() {
	if pongo2.FilterExists(sanitizeFilter) {
		return
	}
	_ = pongo2.RegisterFilter(sanitizeFilter, func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsSafeValue(sanitizeHelperText(in.String())), nil
	})
}

func (e *engine) render(path string, data pongo2.Context) (string, error) {
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(data, &buf); err != nil {
		return "", fmt.Errorf("html: execute template %q: %w", path, err)
	}
	return buf.String(), nil
}

func (e *engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
