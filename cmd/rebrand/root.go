package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/commands"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/config"
	"github.com/walteh/rebrand/pkg/log"
	"github.com/walteh/rebrand/pkg/state"
	"github.com/walteh/rebrand/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile   string
	debug        bool
	envFiles     []string
	genericToken bool
	noGate       bool
	dryRun       bool
	async        bool
	concurrency  int
	lockFile     string
	noLock       bool
}

// newRootCmd creates the command tree. Shared options are filled in by the
// persistent pre-run, after flags are parsed.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "rebrand",
		Short: "Replace the Open WebUI brand in a frontend build",
		Long: `rebrand rewrites brand tokens in source modules before compilation and
in generated HTML after bundling. The brand comes from WEBUI_NAME,
WEBUI_DESCRIPTION and WEBUI_COMMUNITY, falling back to the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			ctx := setupLogging(cmd, flags.debug)
			cmd.SetContext(ctx)
			return flags.fill(cmd, rootOpts)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewSourceCmd(rootOpts),
		commands.NewAssetsCmd(rootOpts),
		commands.NewBuildCmd(rootOpts),
		commands.NewShowCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", ".rebrand.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringArrayVar(&f.envFiles, "env-file", nil, "dotenv file read under the process environment (repeatable)")
	cmd.PersistentFlags().BoolVar(&f.genericToken, "generic-token", false, "also replace a standalone WebUI")
	cmd.PersistentFlags().BoolVar(&f.noGate, "no-gate", false, "run even when the brand name is the default")
	cmd.PersistentFlags().BoolVar(&f.dryRun, "dry-run", false, "compute changes without writing")
	cmd.PersistentFlags().BoolVar(&f.async, "async", false, "process files concurrently")
	cmd.PersistentFlags().IntVar(&f.concurrency, "concurrency", config.DefaultConcurrency, "files in flight when async")
	cmd.PersistentFlags().StringVar(&f.lockFile, "lock", state.LockFileName, "state file, relative to the config file's directory")
	cmd.PersistentFlags().BoolVar(&f.noLock, "no-lock", false, "do not read or write the state file")
}

// setupLogging configures zerolog based on flags and returns a context
// carrying the logger
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	if debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger.WithContext(cmd.Context())
}

// fill loads the config, applies flag overrides and builds the engine.
func (f *rootFlags) fill(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDefault(ctx, f.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	changed := cmd.Flags().Changed
	cfg.EnvFiles = append(cfg.EnvFiles, f.envFiles...)
	if changed("generic-token") {
		cfg.Engine.GenericToken = f.genericToken
	}
	if changed("no-gate") {
		gate := !f.noGate
		cfg.Engine.Gate = &gate
	}
	if changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if changed("async") {
		cfg.Async = f.async
	}
	if changed("concurrency") {
		if f.concurrency <= 0 {
			return errors.Errorf("concurrency must be positive, got %d", f.concurrency)
		}
		cfg.Concurrency = f.concurrency
	}

	b, err := cfg.ResolveBrand(os.LookupEnv)
	if err != nil {
		return errors.Errorf("resolving brand: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("brand", b.String()).Str("config", cfg.String()).Msg("resolved configuration")

	o.Config = cfg
	o.Brand = b
	o.Engine = text.New(b,
		text.WithGenericToken(cfg.Engine.GenericToken),
		text.WithGate(cfg.GateEnabled()),
	)
	o.LockFile = f.lockPath()
	o.Out = cmd.OutOrStdout()
	o.Console = log.NewWithZerolog(o.Out, *zerolog.Ctx(ctx))
	cmd.SetContext(log.NewContext(ctx, o.Console))
	return nil
}

// lockPath resolves the state file next to the config file.
func (f *rootFlags) lockPath() string {
	if f.noLock || f.lockFile == "" {
		return ""
	}
	if filepath.IsAbs(f.lockFile) {
		return f.lockFile
	}
	return filepath.Join(filepath.Dir(f.configFile), f.lockFile)
}
