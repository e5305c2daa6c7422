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

package operation

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rebrand/pkg/brand"
	"github.com/walteh/rebrand/pkg/log"
	"github.com/walteh/rebrand/pkg/status"
	"github.com/walteh/rebrand/pkg/text"
)

var acme = brand.Config{
	Name:        "Acme",
	Description: "Acme is a friendly interface.",
	Community:   "Acme Crew",
}

var (
	defaultInclude = []string{"**/*"}
	defaultIgnore  = []string{"**/node_modules/**", "**/.git/**"}
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestSourceOperation(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/app.ts":                    "export const title = 'Open WebUI'",
		"src/lib/i18n.json":             `{"team": "Open WebUI Community"}`,
		"src/routes/+page.svelte":       "<h1>Welcome</h1>",
		"static/logo.svg":               "<svg>Open WebUI</svg>",
		"node_modules/lib/index.js":     "module.exports = 'Open WebUI'",
		"backend/open_webui/main.py":    `"description": "` + brand.DefaultDescription + `"`,
		"backend/open_webui/config.py":  "NAME = 'Open WebUI'",
		"web/node_modules/x/package.js": "Open WebUI",
	})

	var console bytes.Buffer
	op := NewSourceOperation(Options{
		Engine:  text.New(acme),
		Dir:     dir,
		Include: defaultInclude,
		Ignore:  defaultIgnore,
		Console: log.NewWithZerolog(&console, zerolog.Nop()),
	})

	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, "export const title = 'Acme'", readFile(t, dir, "src/app.ts"))
	assert.Equal(t, `{"team": "Acme Crew"}`, readFile(t, dir, "src/lib/i18n.json"))
	assert.Equal(t, `"description": "Acme is a friendly interface."`, readFile(t, dir, "backend/open_webui/main.py"))

	// untouched
	assert.Equal(t, "<svg>Open WebUI</svg>", readFile(t, dir, "static/logo.svg"))
	assert.Equal(t, "module.exports = 'Open WebUI'", readFile(t, dir, "node_modules/lib/index.js"))
	assert.Equal(t, "NAME = 'Open WebUI'", readFile(t, dir, "backend/open_webui/config.py"))

	mgr := op.Manager()
	require.NotNil(t, mgr)

	info, err := mgr.GetFileInfo(ctx, "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, status.StatusRebranded, info.Status)
	assert.Equal(t, PhaseSource, info.Phase)
	assert.Equal(t, 1, info.Replacements)
	assert.Equal(t, []string{"name"}, info.Rules)
	assert.Equal(t, status.Checksum([]byte("export const title = 'Acme'")), info.Checksum)

	info, err = mgr.GetFileInfo(ctx, "src/routes/+page.svelte")
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, info.Status)

	info, err = mgr.GetFileInfo(ctx, "static/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, status.StatusSkipped, info.Status)

	_, err = mgr.GetFileInfo(ctx, "node_modules/lib/index.js")
	assert.Error(t, err, "ignored files are never tracked")
	_, err = mgr.GetFileInfo(ctx, "web/node_modules/x/package.js")
	assert.Error(t, err, "nested vendor trees are never tracked")

	summary := mgr.Summary(ctx)
	assert.Equal(t, 3, summary.Rebranded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Replacements)

	processed, total := mgr.Progress()
	assert.Equal(t, total, processed)
	assert.Equal(t, 6, total)

	assert.Contains(t, console.String(), "src/app.ts")
	assert.Contains(t, console.String(), "REBRANDED")
	assert.Contains(t, console.String(), "SKIPPED", "debug level shows skipped files")
}

func TestSourceOperation_DryRun(t *testing.T) {
	original := "const a = 'Open WebUI'"
	dir := writeTree(t, map[string]string{"src/app.js": original})

	op := NewSourceOperation(Options{
		Engine:  text.New(acme),
		Dir:     dir,
		Include: defaultInclude,
		DryRun:  true,
	})

	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, original, readFile(t, dir, "src/app.js"), "dry run must not write")

	info, err := op.Manager().GetFileInfo(ctx, "src/app.js")
	require.NoError(t, err)
	assert.Equal(t, status.StatusRebranded, info.Status)
	assert.Contains(t, info.Diff, "@@")
	assert.Contains(t, info.Diff, "Acme")
}

func TestSourceOperation_Async(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("src/mod%02d.ts", i)] = fmt.Sprintf("// %d Open WebUI Community and Open WebUI", i)
	}
	dir := writeTree(t, files)

	op := NewSourceOperation(Options{
		Engine:      text.New(acme),
		Dir:         dir,
		Include:     defaultInclude,
		Async:       true,
		Concurrency: 4,
	})

	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("src/mod%02d.ts", i)
		assert.Equal(t, fmt.Sprintf("// %d Acme Crew and Acme", i), readFile(t, dir, name))
	}

	summary := op.Manager().Summary(ctx)
	assert.Equal(t, 40, summary.Rebranded)
	assert.Equal(t, 80, summary.Replacements)
}

func TestSourceOperation_BinarySkipped(t *testing.T) {
	content := "Open WebUI\x00\x01\x02"
	dir := writeTree(t, map[string]string{"src/blob.js": content})

	op := NewSourceOperation(Options{
		Engine:  text.New(acme),
		Dir:     dir,
		Include: defaultInclude,
	})

	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, content, readFile(t, dir, "src/blob.js"))

	info, err := op.Manager().GetFileInfo(ctx, "src/blob.js")
	require.NoError(t, err)
	assert.Equal(t, status.StatusSkipped, info.Status)
	assert.Equal(t, "binary", info.Reason)
}

func TestSourceOperation_IncludeFilter(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.ts":   "Open WebUI",
		"tests/b.ts": "Open WebUI",
	})

	op := NewSourceOperation(Options{
		Engine:  text.New(acme),
		Dir:     dir,
		Include: []string{"src/**"},
	})

	require.NoError(t, op.Execute(testContext(t)))

	assert.Equal(t, "Acme", readFile(t, dir, "src/a.ts"))
	assert.Equal(t, "Open WebUI", readFile(t, dir, "tests/b.ts"))
}

func TestSourceOperation_KeepsFileMode(t *testing.T) {
	dir := writeTree(t, map[string]string{"bin/run.js": "#!/usr/bin/env node\n// Open WebUI"})
	path := filepath.Join(dir, "bin", "run.js")
	require.NoError(t, os.Chmod(path, 0755))

	op := NewSourceOperation(Options{Engine: text.New(acme), Dir: dir, Include: defaultInclude})
	require.NoError(t, op.Execute(testContext(t)))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), stat.Mode().Perm())
	assert.Equal(t, "#!/usr/bin/env node\n// Acme", readFile(t, dir, "bin/run.js"))
}

func TestSourceOperation_Gated(t *testing.T) {
	dir := writeTree(t, map[string]string{"src/app.ts": "Open WebUI"})

	op := NewSourceOperation(Options{Engine: text.New(brand.Default()), Dir: dir, Include: defaultInclude})
	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, "Open WebUI", readFile(t, dir, "src/app.ts"))
	summary := op.Manager().Summary(ctx)
	assert.Equal(t, 0, summary.Rebranded)
	assert.Equal(t, 1, summary.Skipped)
}

func TestOperation_Errors(t *testing.T) {
	t.Run("missing_engine", func(t *testing.T) {
		op := NewSourceOperation(Options{Dir: t.TempDir()})
		err := op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine is required")
	})

	t.Run("missing_dir", func(t *testing.T) {
		op := NewSourceOperation(Options{
			Engine:  text.New(acme),
			Dir:     filepath.Join(t.TempDir(), "nope"),
			Include: defaultInclude,
		})
		err := op.Execute(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collecting files")
	})

	t.Run("cancelled", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"src/a.ts": "Open WebUI"})
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()

		op := NewSourceOperation(Options{Engine: text.New(acme), Dir: dir, Include: defaultInclude})
		err := op.Execute(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "Open WebUI", readFile(t, dir, "src/a.ts"))
	})
}

func TestAssetOperation(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":              `<head><meta name="description" content="old" /><title>Open WebUI</title></head>`,
		"_app/immutable/entry.js": "const n = 'Open WebUI'",
		"about/index.html":        "<body>no head</body>",
	})

	op := NewAssetOperation(Options{
		Engine:  text.New(brand.Config{Name: "NewName", Description: "New Desc", Community: "New Crew"}),
		Dir:     dir,
		Include: []string{"**/*.html"},
	})

	ctx := testContext(t)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t,
		`<head><meta name="description" content="New Desc" /><title>NewName</title></head>`,
		readFile(t, dir, "index.html"))
	assert.Equal(t, "const n = 'Open WebUI'", readFile(t, dir, "_app/immutable/entry.js"), "bundled js is not an asset")

	info, err := op.Manager().GetFileInfo(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, PhaseAssets, info.Phase)
	assert.Equal(t, status.StatusRebranded, info.Status)
	assert.Equal(t, 2, info.Replacements)

	info, err = op.Manager().GetFileInfo(ctx, "about/index.html")
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, info.Status)
}

func TestRunner_Run(t *testing.T) {
	src := writeTree(t, map[string]string{"app.ts": "Open WebUI"})
	build := writeTree(t, map[string]string{"index.html": "<title>Open WebUI</title>"})

	engine := text.New(acme)
	source := NewSourceOperation(Options{Engine: engine, Dir: src, Include: defaultInclude})
	assets := NewAssetOperation(Options{Engine: engine, Dir: build, Include: []string{"**/*.html"}})

	ctx := testContext(t)
	logger := zerolog.Ctx(ctx)
	results, err := NewRunner(logger).Run(ctx, source, assets)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, PhaseSource, results[0].Name)
	assert.Equal(t, filepath.Clean(src), results[0].Dir)
	assert.Equal(t, 1, results[0].Summary.Rebranded)
	require.Len(t, results[0].Files, 1)
	assert.Equal(t, "app.ts", results[0].Files[0].Path)

	assert.Equal(t, PhaseAssets, results[1].Name)
	assert.Equal(t, 1, results[1].Summary.Rebranded)
	assert.Equal(t, "<title>Acme</title>", readFile(t, build, "index.html"))
}

func TestRunner_StopsOnError(t *testing.T) {
	build := writeTree(t, map[string]string{"index.html": "<title>Open WebUI</title>"})

	engine := text.New(acme)
	source := NewSourceOperation(Options{Engine: engine, Dir: filepath.Join(t.TempDir(), "missing"), Include: defaultInclude})
	assets := NewAssetOperation(Options{Engine: engine, Dir: build, Include: []string{"**/*.html"}})

	results, err := NewRunner(nil).Run(testContext(t), source, assets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing source")
	assert.Len(t, results, 1)
	assert.Equal(t, "<title>Open WebUI</title>", readFile(t, build, "index.html"))
}

func TestOperation_ConsoleFromContext(t *testing.T) {
	dir := writeTree(t, map[string]string{"app.ts": "Open WebUI"})

	var console bytes.Buffer
	ctx := log.NewContext(testContext(t), log.NewWithZerolog(&console, zerolog.Nop()))

	op := NewSourceOperation(Options{Engine: text.New(acme), Dir: dir, Include: defaultInclude})
	require.NoError(t, op.Execute(ctx))

	assert.Contains(t, console.String(), "app.ts")
	assert.Contains(t, console.String(), "REBRANDED")
}
