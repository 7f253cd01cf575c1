package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Format identifies a document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFor infers the format from a file name. The second result is false
// for extensions the loader does not handle.
func FormatFor(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".hcl":
		return FormatHCL, true
	default:
		return "", false
	}
}

// Parse decodes a single document. name selects the format by extension and
// supplies the form id when the document omits one. Unknown extensions are
// tried as JSON and then YAML.
func Parse(data []byte, name string) (model.FormConfig, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormConfig{}, fmt.Errorf("loader: file %s is empty", name)
	}

	var (
		config model.FormConfig
		err    error
	)
	format, ok := FormatFor(name)
	if !ok {
		if jsonErr := json.Unmarshal(data, &config); jsonErr != nil {
			config = model.FormConfig{}
			if yamlErr := yaml.Unmarshal(data, &config); yamlErr != nil {
				return model.FormConfig{}, fmt.Errorf("loader: parse %s: invalid JSON or YAML", name)
			}
		}
		return finish(config, name), nil
	}

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &config)
	case FormatYAML:
		err = yaml.Unmarshal(data, &config)
	case FormatTOML:
		err = toml.Unmarshal(data, &config)
	case FormatHCL:
		config, err = decodeHCL(data, name)
	}
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("loader: parse %s: %w", name, err)
	}
	return finish(config, name), nil
}

// LoadFile reads and parses a document from disk.
func LoadFile(filename string) (model.FormConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("loader: read %s: %w", filename, err)
	}
	return Parse(data, filename)
}

func finish(config model.FormConfig, name string) model.FormConfig {
	config.ID = strings.TrimSpace(config.ID)
	if config.ID == "" {
		base := filepath.Base(name)
		config.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return config
}

// Store holds parsed forms keyed by id.
type Store struct {
	forms   map[string]model.FormConfig
	sources map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		forms:   make(map[string]model.FormConfig),
		sources: make(map[string]string),
	}
}

// Add registers a form. Adding an id twice is an error.
func (s *Store) Add(config model.FormConfig, source string) error {
	id := strings.TrimSpace(config.ID)
	if id == "" {
		return fmt.Errorf("loader: form from %s has no id", source)
	}
	if prev, exists := s.sources[id]; exists {
		return fmt.Errorf("loader: duplicate form %q (files %s and %s)", id, prev, source)
	}
	s.forms[id] = config
	s.sources[id] = source
	return nil
}

// LoadFS walks fsys and parses every supported document. Failures are
// collected so one pass reports every broken file. A nil fsys yields an empty
// store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	var errs error
	walkErr := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := FormatFor(p); !ok {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("loader: read %s: %w", p, err))
			return nil
		}
		config, err := Parse(data, path.Base(p))
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		errs = multierr.Append(errs, store.Add(config, p))
		return nil
	})
	if err := multierr.Append(walkErr, errs); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadDir is LoadFS over a directory on disk.
func LoadDir(dir string) (*Store, error) {
	return LoadFS(os.DirFS(dir))
}

// Form returns the form registered under id.
func (s *Store) Form(id string) (model.FormConfig, bool) {
	if s == nil {
		return model.FormConfig{}, false
	}
	config, ok := s.forms[id]
	return config, ok
}

// Source returns the file a form was loaded from.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// IDs lists the registered ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}
