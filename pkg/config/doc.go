/*
Package config loads the optional rebrand project file.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads .rebrand.yaml, .rebrand.hcl or .rebrand.json
- Fills defaults for directories, globs and concurrency
- Layers file brand values under the environment

🔄 Flow:
1. Picks a parser from the file extension
2. Decodes with unknown fields rejected
3. Validates globs and fills defaults
4. Resolves relative paths against the file's directory

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".rebrand.yaml")
	if err != nil {
		return err
	}

	b, err := cfg.ResolveBrand(os.LookupEnv)
	if err != nil {
		return err
	}

An HCL file can read the environment directly:

	brand {
	  name = env.PRODUCT_NAME
	}

	engine {
	  generic_token = true
	}
*/
package config
