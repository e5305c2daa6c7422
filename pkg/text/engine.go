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

package text

import (
	"strings"

	"github.com/walteh/rebrand/pkg/brand"
)

// 📁 Path policy
const (
	// VendorMarker marks paths inside a third-party dependency tree
	VendorMarker = "node_modules"

	// BackendEntryMarker marks the backend application entry file
	BackendEntryMarker = "main.py"
)

// SourceExtensions are the only source files rewritten by TransformText
var SourceExtensions = []string{".ts", ".js", ".svelte", ".json"}

// 📊 Result describes what a transform did
type Result struct {
	// Content is the transformed text, or the input when nothing changed
	Content string

	// Changed is false when the caller should leave the artifact untouched
	Changed bool

	// Replacements is the number of substitutions made
	Replacements int

	// Rules lists the rules that matched, in application order
	Rules []string
}

// Option configures an Engine
type Option func(*options)

type options struct {
	genericToken bool
	gate         bool
	defaults     brand.Config
}

// WithGenericToken adds the standalone "WebUI" rule. Off by default.
func WithGenericToken(enabled bool) Option {
	return func(o *options) { o.genericToken = enabled }
}

// WithGate makes an engine configured with the default name a no-op. On by
// default.
func WithGate(enabled bool) Option {
	return func(o *options) { o.gate = enabled }
}

// WithDefaults sets the original brand literals the rules look for.
func WithDefaults(defaults brand.Config) Option {
	return func(o *options) { o.defaults = defaults }
}

// 🎯 Engine rewrites brand tokens in source text and generated HTML.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg      brand.Config
	defaults brand.Config
	gated    bool

	rules     []ReplacementRule
	html      []HTMLFieldRule
	descField string
	descRepl  string
}

// 🏭 New creates an engine for cfg
func New(cfg brand.Config, opts ...Option) *Engine {
	o := options{
		gate:     true,
		defaults: brand.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		cfg:       cfg,
		defaults:  o.defaults,
		gated:     o.gate && cfg.Name == o.defaults.Name,
		html:      htmlRules(cfg.Name, cfg.Description),
		descField: `"description": "` + o.defaults.Description + `"`,
		descRepl:  `"description": "` + cfg.Description + `"`,
	}
	e.rules = buildRules(cfg, o.defaults, o.genericToken)
	return e
}

// buildRules orders the token rules longest first, since the bare name is a
// substring of the community name.
func buildRules(cfg, defaults brand.Config, genericToken bool) []ReplacementRule {
	name := defaults.Name
	compact := strings.ReplaceAll(name, " ", "")

	rules := []ReplacementRule{
		tokenRule("community", defaults.Community, cfg.Community),
	}
	if suffix, ok := strings.CutPrefix(defaults.Community, name); ok && compact != name {
		rules = append(rules, tokenRule("community-compact", compact+suffix, cfg.Community))
	}
	if genericToken {
		if fields := strings.Fields(name); len(fields) > 1 {
			prefix := strings.Join(fields[:len(fields)-1], " ")
			rules = append(rules, tokenRule("generic", fields[len(fields)-1], cfg.Name, prefix))
		}
	}
	rules = append(rules, tokenRule("name", name, cfg.Name))
	if compact != name {
		rules = append(rules, tokenRule("name-compact", compact, cfg.Name))
	}
	return rules
}

// Config returns the brand the engine rewrites to.
func (e *Engine) Config() brand.Config {
	return e.cfg
}

// Gated reports whether the engine skips every input.
func (e *Engine) Gated() bool {
	return e.gated
}

// Rules returns the token rules in application order.
func (e *Engine) Rules() []ReplacementRule {
	out := make([]ReplacementRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// HTMLRules returns the generated-asset rules.
func (e *Engine) HTMLRules() []HTMLFieldRule {
	out := make([]HTMLFieldRule, len(e.html))
	copy(out, e.html)
	return out
}

// 🔄 TransformText rewrites a source module. It returns false when the
// module should be left as is.
func (e *Engine) TransformText(text, path string) (string, bool) {
	res := e.Text(text, path)
	return res.Content, res.Changed
}

// Text is TransformText with details about what matched.
func (e *Engine) Text(text, path string) Result {
	res := Result{Content: text}
	if !e.Accepts(path) {
		return res
	}

	current := text
	if e.descField != e.descRepl && strings.Contains(path, BackendEntryMarker) && strings.Contains(current, e.descField) {
		current = strings.Replace(current, e.descField, e.descRepl, 1)
		res.Replacements++
		res.Rules = append(res.Rules, "backend-description")
	}

	if IsSourcePath(path) {
		for _, rule := range e.rules {
			next, n := rule.apply(current)
			if n == 0 || next == current {
				continue
			}
			current = next
			res.Replacements += n
			res.Rules = append(res.Rules, rule.Name)
		}
	}

	res.Content = current
	res.Changed = current != text
	return res
}

// 🔄 TransformAsset rewrites a generated HTML asset. It returns false when the
// asset should be left as is.
func (e *Engine) TransformAsset(fileName, source string) (string, bool) {
	res := e.Asset(fileName, source)
	return res.Content, res.Changed
}

// Asset is TransformAsset with details about what matched.
func (e *Engine) Asset(fileName, source string) Result {
	res := Result{Content: source}
	if e.gated || !IsAssetPath(fileName) {
		return res
	}

	current := source
	for _, rule := range e.html {
		next, ok := rule.apply(current)
		if !ok || next == current {
			continue
		}
		current = next
		res.Replacements++
		res.Rules = append(res.Rules, rule.Name)
	}

	res.Content = current
	res.Changed = current != source
	return res
}

// Accepts reports whether TransformText could change a module at path. A
// false result means the text does not need to be read at all.
func (e *Engine) Accepts(path string) bool {
	if e.gated || strings.Contains(path, VendorMarker) {
		return false
	}
	return IsSourcePath(path) || strings.Contains(path, BackendEntryMarker)
}

// IsSourcePath reports whether path has an extension TransformText rewrites.
func IsSourcePath(path string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsAssetPath reports whether fileName is a generated HTML asset.
func IsAssetPath(fileName string) bool {
	return strings.HasSuffix(fileName, ".html")
}
