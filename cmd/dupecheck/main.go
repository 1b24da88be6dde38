package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	dupecheck "github.com/Kaedenn/dupecheck/pkg"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dupecheck: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dupecheck [path...]",
		Short: "Check for duplicate files within the given directory trees",
		Long: `Check for duplicate files within the given directory trees. By default,
the current directory is scanned.

For faster subsequent executions, a cache file is generated in the
current directory with a summary of the scanned files. The cache file's
path can be changed via the --cache argument, or disabled via the
--no-cache argument.

By default, objects within directories named ".git" or ".svn" are
excluded. This can be overruled via the --no-default-exclude argument.

There is no special logic for hardlinks. Symbolic links are completely
ignored.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cachePath, "cache", dupecheck.DefaultCacheName, "override cache file `PATH`")
	flags.BoolVar(&opts.noCache, "no-cache", false, "do not load or save a cache file")
	flags.StringVar(&opts.configPath, "config", dupecheck.DefaultConfigPath(), "configuration file `PATH`")
	flags.StringVar(&opts.hashAlgorithm, "filehash", "", "hash `ALGO`rithm: sha1, sha256 or sha512")
	flags.StringArrayVarP(&opts.excludeDirs, "x-dir", "x", nil, "exclude objects in directories named `DIR`")
	flags.StringArrayVar(&opts.excludeDirGlobs, "x-dir-glob", nil, "exclude objects in directories matching `GLOB`")
	flags.StringArrayVar(&opts.excludePathGlobs, "x-path-glob", nil, "exclude objects with paths matching `GLOB`")
	flags.StringArrayVar(&opts.excludeFiles, "x-file", nil, "exclude files named `FILE`")
	flags.StringArrayVar(&opts.excludeFileGlobs, "x-file-glob", nil, "exclude files matching `GLOB`")
	flags.BoolVar(&opts.noDefaultExclude, "no-default-exclude", false, "do not add the default excludes")
	flags.BoolVarP(&opts.progress, "progress", "p", false, "show progress (may slow down scanning on very fast disk IO)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "show debugging information")

	return cmd
}

func run(opts *options, args []string, out io.Writer) error {
	cfg, err := dupecheck.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(opts.debug, cfg.GetVerboseConfig().Level)

	algoName := cfg.GetHashConfig().Default
	if opts.hashAlgorithm != "" {
		algoName = opts.hashAlgorithm
	}
	algorithm, err := dupecheck.GetHashAlgorithm(algoName)
	if err != nil {
		return err
	}

	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}
	cachePath, err := resolveCachePath(opts, cfg)
	if err != nil {
		return err
	}
	logger.Debug().
		Strs("roots", roots).
		Str("cache", cachePath).
		Str("filehash", algorithm.Name).
		Msg("resolved scan configuration")

	cache := dupecheck.NewCache(cachePath, algorithm, logger)
	cache.Load()

	scanner := dupecheck.NewScanner(cache, buildExcludeList(opts, cfg), logger)
	if opts.progress || cfg.GetProgressConfig().Enabled {
		if sink, err := newTerminalProgress(os.Stderr); err == nil {
			scanner.Progress = sink
		} else {
			logger.Warn().Err(err).Msg("progress requested but terminal size unavailable")
		}
	}

	pairs, err := scanner.Scan(roots)
	if err != nil {
		return err
	}

	report := dupecheck.BuildReport(pairs, cache)
	dupecheck.PrintReport(out, report, cache)
	return nil
}

// setupLogger builds the injected console logger. The --debug flag wins;
// otherwise the config file's verbose level selects how chatty the run is.
func setupLogger(debug bool, verboseLevel int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case debug || verboseLevel >= 2:
		level = zerolog.DebugLevel
	case verboseLevel == 1:
		level = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
