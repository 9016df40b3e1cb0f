package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-tool/internal/commenttool"
	"comment-tool/internal/config"
	"comment-tool/internal/dictionary"
	"comment-tool/internal/envcheck"
	"comment-tool/internal/filewalker"
	"comment-tool/internal/logging"
	"comment-tool/internal/sourcefile"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute runs the comment tool.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// ExecuteValidateEnv runs the environment validator and exits 1 when a check
// fails.
func ExecuteValidateEnv() {
	if err := newValidateEnvCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	scan          bool
	scanNonASCII  bool
	scanBOM       bool
	removeBOM     bool
	stripComments bool
	file          string
	directory     string
	encoding      string
}

// mode picks the first selected mode flag in precedence order.
func (o *options) mode() commenttool.Mode {
	switch {
	case o.scan:
		return commenttool.ModeScanJapanese
	case o.scanNonASCII:
		return commenttool.ModeScanNonASCII
	case o.scanBOM:
		return commenttool.ModeScanBOM
	case o.removeBOM:
		return commenttool.ModeRemoveBOM
	case o.stripComments:
		return commenttool.ModeStripComments
	default:
		return commenttool.ModeExtract
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "comment-tool",
		Short: "Process C/C++ files for Japanese comments",
		Long: `Scans C/C++ sources (.c, .cpp, .h, .hpp) for Japanese text.
Without a mode flag, comments containing Japanese are recorded in the
translation dictionary with an empty translation for a translator to fill in.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := config.Load()
			if !cmd.Flags().Changed("encoding") {
				opts.encoding = cfg.SourceEncoding
			}
			return run(ctx, cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.scan, "scan", false, "Scan files for Japanese characters")
	f.BoolVar(&opts.scanNonASCII, "scan-non-ascii", false, "Scan files for non-ASCII characters")
	f.BoolVar(&opts.scanBOM, "scan-bom", false, "Scan files for BOM characters")
	f.BoolVar(&opts.removeBOM, "remove-bom", false, "Remove BOM characters from files")
	f.BoolVar(&opts.stripComments, "strip-comments", false, "Rewrite files without their comments")
	f.StringVar(&opts.file, "file", "", "Process a specific file")
	f.StringVar(&opts.directory, "directory", ".", "Directory to process")
	f.StringVar(&opts.encoding, "encoding", sourcefile.DefaultEncoding, "Source file encoding (utf-8, shift_jis, euc-jp, ...)")

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// run wires the components for one invocation. Per-file failures are logged
// and never turn into a returned error.
func run(ctx context.Context, cfg *config.Config, opts *options, stdout, progress io.Writer) error {
	logger, closer := logging.New(stdout, cfg.LogFile, cfg.LogLevel)
	defer closer.Close()

	if !cfg.EnvFileLoaded {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	codec, err := sourcefile.NewCodec(opts.encoding)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tool := commenttool.New(dictionary.Open(ctx, store, logger), codec, logger)

	files, err := filewalker.NewWalker(logger).Resolve(opts.file, opts.directory)
	if err != nil {
		logger.Warn().Err(err).Str("directory", opts.directory).Msg("Cannot list source files")
	}

	commenttool.NewRunner(tool, logger, progress).Run(ctx, opts.mode(), files)
	return nil
}

// openStore selects the dictionary backend: PostgreSQL when DATABASE_URL is
// set, the JSON file otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (dictionary.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return dictionary.NewJSONFileStore(cfg.DictionaryPath), func() {}, nil
	}

	store, err := dictionary.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open dictionary database: %w", err)
	}
	logger.Info().Str("dictionary", store.Location()).Msg("Connected to PostgreSQL")
	return store, store.Close, nil
}

var errChecksFailed = errors.New("environment validation failed")

func newValidateEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "validate-env",
		Short:         "Check that the development environment is ready for committing",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := config.Load()
			v := envcheck.New(envcheck.ExecRunner{}, envcheck.Settings{
				MinGoVersion:  cfg.MinGoVersion,
				HookPath:      cfg.PreCommitHook,
				RequiredTools: cfg.RequiredTools,
				Timeout:       time.Duration(cfg.CommandTimeoutSeconds) * time.Second,
			}, cmd.OutOrStdout())

			if !v.Validate(ctx) {
				return errChecksFailed
			}
			return nil
		},
	}
}
