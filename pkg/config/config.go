// Package config loads the optional relay.yaml file that tunes a toolkit
// instance: dispatch limits, display scale and error reporting.
package config

import (
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/relay/pkg/errors"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "relay.yaml"

const (
	defaultHopBudget = 16
	defaultMaxFlush  = 1024
	defaultScale     = 1.0
)

// Config represents the optional relay.yaml configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Display  DisplayConfig  `yaml:"display"`
	Errors   ErrorsConfig   `yaml:"errors"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// DispatchConfig tunes the dispatcher.
type DispatchConfig struct {
	HopBudget     int   `yaml:"hop_budget,omitempty"`
	MaxFlush      int   `yaml:"max_flush,omitempty"`
	RecoverPanics *bool `yaml:"recover_panics,omitempty"`
	Diagnostics   bool  `yaml:"diagnostics,omitempty"`
}

// DisplayConfig describes the initial display.
type DisplayConfig struct {
	Scale float64 `yaml:"scale,omitempty"`
}

// ErrorsConfig configures the default error handler.
type ErrorsConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	AppName       string
	HopBudget     int
	MaxFlush      int
	RecoverPanics bool
	Diagnostics   bool
	Scale         float64
	Verbose       bool
}

// Default returns the values used when no relay.yaml exists.
func Default() *Resolved {
	return &Resolved{
		AppName:       "relay_app",
		HopBudget:     defaultHopBudget,
		MaxFlush:      defaultMaxFlush,
		RecoverPanics: true,
		Scale:         defaultScale,
	}
}

// Parse decodes relay.yaml content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New("config.Parse", errors.KindConfig,
			fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// LoadOptional reads relay.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.New("config.LoadOptional", errors.KindConfig,
			fmt.Errorf("failed to read %s: %w", FileName, err))
	}
	return Parse(data)
}

// Resolve loads relay.yaml (if present) from dir and fills in defaults. The
// app name defaults to the last element of the go.mod module path when dir
// holds a go.mod.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	modulePath := readModulePath(dir)
	return cfg.Resolve(dir, modulePath)
}

// Resolve applies defaults and validates the configuration.
func (c *Config) Resolve(dir, modulePath string) (*Resolved, error) {
	r := Default()
	r.Root = dir
	r.ModulePath = modulePath

	if name := strings.TrimSpace(c.App.Name); name != "" {
		r.AppName = name
	} else if name := defaultAppName(modulePath, dir); name != "" {
		r.AppName = name
	}
	if c.Dispatch.HopBudget != 0 {
		r.HopBudget = c.Dispatch.HopBudget
	}
	if c.Dispatch.MaxFlush != 0 {
		r.MaxFlush = c.Dispatch.MaxFlush
	}
	if c.Dispatch.RecoverPanics != nil {
		r.RecoverPanics = *c.Dispatch.RecoverPanics
	}
	r.Diagnostics = c.Dispatch.Diagnostics
	if c.Display.Scale != 0 {
		r.Scale = c.Display.Scale
	}
	r.Verbose = c.Errors.Verbose

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate reports unusable values.
func (r *Resolved) Validate() error {
	switch {
	case r.HopBudget < 1:
		return invalid("dispatch.hop_budget must be at least 1 (got %d)", r.HopBudget)
	case !(r.Scale > 0) || math.IsInf(r.Scale, 0):
		return errors.New("config.Validate", errors.KindInvalidScale,
			fmt.Errorf("%w: display.scale must be positive (got %v)", errors.ErrInvalidScale, r.Scale))
	}
	return nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func readModulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func defaultAppName(modulePath, dir string) string {
	if modulePath != "" {
		prefix, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(prefix, "/")
			return parts[len(parts)-1]
		}
	}
	if dir == "" {
		return ""
	}
	base := filepath.Base(dir)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

func invalid(format string, args ...any) error {
	return errors.New("config.Validate", errors.KindConfig,
		fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidConfig}, args...)...))
}
