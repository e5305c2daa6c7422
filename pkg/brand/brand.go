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

// Package brand resolves the product brand a build should carry.
package brand

import (
	"fmt"
)

// 🏷️ Original brand literals
const (
	DefaultName        = "Open WebUI"
	DefaultDescription = "Open WebUI is an open, extensible, user-friendly interface for AI that adapts to your workflow."
	DefaultCommunity   = "Open WebUI Community"
)

// 🔑 Recognized environment variables
const (
	EnvName        = "WEBUI_NAME"
	EnvDescription = "WEBUI_DESCRIPTION"
	EnvCommunity   = "WEBUI_COMMUNITY"
)

// 📚 Config is the brand a build is rewritten to
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Community   string `json:"community" yaml:"community"`
}

// Default returns the original product brand.
func Default() Config {
	return Config{
		Name:        DefaultName,
		Description: DefaultDescription,
		Community:   DefaultCommunity,
	}
}

// Lookup resolves a single variable, reporting whether it was set.
type Lookup func(key string) (string, bool)

// 🎯 FromEnv resolves the brand from lookup. Unset and empty variables fall
// back to the original brand.
func FromEnv(lookup Lookup) Config {
	return Resolve(Config{}, lookup)
}

// Resolve layers the defaults, then the non-empty fields of base, then the
// non-empty variables found by lookup.
func Resolve(base Config, lookup Lookup) Config {
	return Default().Overlay(base).Overlay(Config{
		Name:        valueOr(lookup, EnvName, ""),
		Description: valueOr(lookup, EnvDescription, ""),
		Community:   valueOr(lookup, EnvCommunity, ""),
	})
}

func valueOr(lookup Lookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

// Overlay returns c with every non-empty field of other applied on top.
func (c Config) Overlay(other Config) Config {
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Description != "" {
		c.Description = other.Description
	}
	if other.Community != "" {
		c.Community = other.Community
	}
	return c
}

// 📝 String returns a short representation of the brand
func (c Config) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Community)
}
