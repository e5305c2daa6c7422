// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rebrand/pkg/brand"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Defaults applied by Validate
const (
	DefaultSourceDir   = "src"
	DefaultAssetsDir   = "build"
	DefaultConcurrency = 8
)

var (
	DefaultSourceInclude = []string{"**/*"}
	DefaultSourceIgnore  = []string{"**/node_modules/**", "**/.git/**"}
	DefaultAssetsInclude = []string{"**/*.html"}
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🏷️ BrandBlock holds brand values set in the config file
type BrandBlock struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
	Community   string `json:"community,omitempty" yaml:"community,omitempty" hcl:"community,optional"`
}

// ⚙️ EngineBlock selects which optional engine behaviors are active
type EngineBlock struct {
	GenericToken bool  `json:"generic_token,omitempty" yaml:"generic_token,omitempty" hcl:"generic_token,optional"`
	Gate         *bool `json:"gate,omitempty" yaml:"gate,omitempty" hcl:"gate,optional"`
}

// 📁 SourceBlock selects the source modules rewritten before compilation
type SourceBlock struct {
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty" hcl:"dir,optional"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Ignore  []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
}

// 📦 AssetsBlock selects the generated assets rewritten after bundling
type AssetsBlock struct {
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty" hcl:"dir,optional"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Brand       *BrandBlock  `json:"brand,omitempty" yaml:"brand,omitempty" hcl:"brand,block"`
	Engine      *EngineBlock `json:"engine,omitempty" yaml:"engine,omitempty" hcl:"engine,block"`
	Source      *SourceBlock `json:"source,omitempty" yaml:"source,omitempty" hcl:"source,block"`
	Assets      *AssetsBlock `json:"assets,omitempty" yaml:"assets,omitempty" hcl:"assets,block"`
	EnvFiles    []string     `json:"env_files,omitempty" yaml:"env_files,omitempty" hcl:"env_files,optional"`
	Async       bool         `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
	Concurrency int          `json:"concurrency,omitempty" yaml:"concurrency,omitempty" hcl:"concurrency,optional"`
	DryRun      bool         `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`

	location string
}

// Default returns a validated config with no file behind it.
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.resolvePaths()
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid and fills defaults
func (cfg *Config) Validate() error {
	if cfg.Brand == nil {
		cfg.Brand = &BrandBlock{}
	}
	if cfg.Engine == nil {
		cfg.Engine = &EngineBlock{}
	}
	if cfg.Engine.Gate == nil {
		gate := true
		cfg.Engine.Gate = &gate
	}

	if cfg.Source == nil {
		cfg.Source = &SourceBlock{}
	}
	if cfg.Source.Dir == "" {
		cfg.Source.Dir = DefaultSourceDir
	}
	if len(cfg.Source.Include) == 0 {
		cfg.Source.Include = append([]string(nil), DefaultSourceInclude...)
	}
	if cfg.Source.Ignore == nil {
		cfg.Source.Ignore = append([]string(nil), DefaultSourceIgnore...)
	}

	if cfg.Assets == nil {
		cfg.Assets = &AssetsBlock{}
	}
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = DefaultAssetsDir
	}
	if len(cfg.Assets.Include) == 0 {
		cfg.Assets.Include = append([]string(nil), DefaultAssetsInclude...)
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	for _, group := range [][]string{cfg.Source.Include, cfg.Source.Ignore, cfg.Assets.Include} {
		for _, pattern := range group {
			if !doublestar.ValidatePattern(pattern) {
				return errors.Errorf("invalid glob pattern %q", pattern)
			}
		}
	}

	cfg.Source.Dir = filepath.Clean(cfg.Source.Dir)
	cfg.Assets.Dir = filepath.Clean(cfg.Assets.Dir)
	return nil
}

// resolvePaths makes relative directories relative to the config file.
func (cfg *Config) resolvePaths() {
	if cfg.location == "" {
		return
	}
	base := filepath.Dir(cfg.location)
	for _, dir := range []*string{&cfg.Source.Dir, &cfg.Assets.Dir} {
		if !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
	for i, f := range cfg.EnvFiles {
		if !filepath.IsAbs(f) {
			cfg.EnvFiles[i] = filepath.Join(base, f)
		}
	}
}

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🏷️ ResolveBrand layers the config file's brand under the environment
func (cfg *Config) ResolveBrand(lookup brand.Lookup) (brand.Config, error) {
	var file brand.Config
	if cfg.Brand != nil {
		file = brand.Config{
			Name:        cfg.Brand.Name,
			Description: cfg.Brand.Description,
			Community:   cfg.Brand.Community,
		}
	}

	if len(cfg.EnvFiles) > 0 {
		values, err := brand.LoadEnvFile(cfg.EnvFiles...)
		if err != nil {
			return brand.Config{}, errors.Errorf("loading env files: %w", err)
		}
		lookup = brand.ChainLookup(lookup, brand.MapLookup(values))
	}

	return brand.Resolve(file, lookup), nil
}

// GateEnabled reports whether the default-name gate is on.
func (cfg *Config) GateEnabled() bool {
	return cfg.Engine == nil || cfg.Engine.Gate == nil || *cfg.Engine.Gate
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("source=%s assets=%s async=%t dry_run=%t", cfg.Source.Dir, cfg.Assets.Dir, cfg.Async, cfg.DryRun)
}
