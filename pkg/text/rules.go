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
	"regexp"
	"strings"
	"unicode"
)

// ReplacementRule replaces every word-bounded occurrence of a brand token
type ReplacementRule struct {
	// Name identifies the rule in logs and results
	Name string

	// Pattern matches the token, bounded by \b on both sides
	Pattern *regexp.Regexp

	// Replace is inserted literally for each match
	Replace string

	// NotAfter skips a match preceded by one of these words and at least one
	// whitespace character
	NotAfter []string
}

// tokenRule builds a rule matching token as a whole word.
func tokenRule(name, token, replace string, notAfter ...string) ReplacementRule {
	return ReplacementRule{
		Name:     name,
		Pattern:  regexp.MustCompile(`\b` + regexp.QuoteMeta(token) + `\b`),
		Replace:  replace,
		NotAfter: notAfter,
	}
}

// apply rewrites s and returns the number of matches replaced.
func (r ReplacementRule) apply(s string) (string, int) {
	matches := r.Pattern.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}

	var b strings.Builder
	last, count := 0, 0
	for _, m := range matches {
		if r.skip(s[:m[0]]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(r.Replace)
		last = m[1]
		count++
	}
	if count == 0 {
		return s, 0
	}
	b.WriteString(s[last:])
	return b.String(), count
}

func (r ReplacementRule) skip(before string) bool {
	trimmed := strings.TrimRightFunc(before, unicode.IsSpace)
	if len(trimmed) == len(before) {
		return false
	}
	for _, word := range r.NotAfter {
		if strings.HasSuffix(trimmed, word) {
			return true
		}
	}
	return false
}

// HTMLFieldRule rewrites the first occurrence of an attribute in generated HTML
type HTMLFieldRule struct {
	// Name identifies the rule in logs and results
	Name string

	// Pattern matches the whole tag or attribute being rewritten
	Pattern *regexp.Regexp

	// Replace is the full text substituted for the first match
	Replace string
}

// apply rewrites the first match only.
func (r HTMLFieldRule) apply(s string) (string, bool) {
	loc := r.Pattern.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[0]] + r.Replace + s[loc[1]:], true
}

var (
	appTitlePattern    = regexp.MustCompile(`<meta name="apple-mobile-web-app-title" content="[^"]*" />`)
	descriptionPattern = regexp.MustCompile(`<meta name="description" content="[^"]*" />`)
	titleAttrPattern   = regexp.MustCompile(`title="[^"]*"`)
	titleTagPattern    = regexp.MustCompile(`<title>[^<]*</title>`)
)

// htmlRules returns the generated-asset rules for a brand. The rules target
// disjoint parts of the document, so their order does not matter.
func htmlRules(name, description string) []HTMLFieldRule {
	return []HTMLFieldRule{
		{
			Name:    "app-title-meta",
			Pattern: appTitlePattern,
			Replace: `<meta name="apple-mobile-web-app-title" content="` + name + `" />`,
		},
		{
			Name:    "description-meta",
			Pattern: descriptionPattern,
			Replace: `<meta name="description" content="` + description + `" />`,
		},
		{
			Name:    "title-attr",
			Pattern: titleAttrPattern,
			Replace: `title="` + name + `"`,
		},
		{
			Name:    "title-tag",
			Pattern: titleTagPattern,
			Replace: `<title>` + name + `</title>`,
		},
	}
}
