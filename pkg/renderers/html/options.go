package html

import (
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
)

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates   fs.FS
	theme       *theme.RendererConfig
	idPrefix    string
	submitLabel string
	logger      *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must contain the
// same paths as TemplatesFS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithTheme applies a resolved theme: its name and variant become form
// attributes, CSS variables are emitted as a style block and partials
// replace built-in templates by key ("form", "field", "controls.select", ...).
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithIDPrefix changes the prefix used for element ids. Defaults to "ff".
func WithIDPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.idPrefix = strings.TrimSpace(prefix)
	}
}

// WithSubmitLabel changes the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(label) != "" {
			cfg.submitLabel = label
		}
	}
}

// WithLogger sets the logger used for template fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
