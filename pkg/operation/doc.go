/*
Package operation walks a directory and feeds its files through the brand
engine, one phase at a time.

	+-------------+      +-------------+
	|   source    | ---> |   assets    |
	| (pre-build) |      | (post-build)|
	+------+------+      +------+------+
	       |                    |
	       +---------+----------+
	                 |
	          +------+------+
	          |   status    |
	          | (file I/O)  |
	          +-------------+

🎯 Phases:
  - source: TransformText over .ts/.js/.svelte/.json modules and the backend
    entry file, before compilation
  - assets: TransformAsset over generated .html, after bundling

🔄 Flow per file:
 1. Select with include/ignore globs (doublestar)
 2. Skip what the engine does not accept, and binary content
 3. Transform, then write atomically through status.Manager when changed
 4. Report one console line per file

⚡ Async mode bounds concurrent files with errgroup. Dry runs record a patch
preview instead of writing.

🔍 Example:

	op := operation.NewSourceOperation(operation.Options{
		Engine:  engine,
		Dir:     "src",
		Include: []string{"lib/**", "routes/**"},
	})
	results, err := operation.NewRunner(&logger).Run(ctx, op)
*/
package operation
