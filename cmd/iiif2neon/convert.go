package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nao1215/iiif2neon/internal/config"
	"github.com/nao1215/iiif2neon/internal/iiif"
	"github.com/nao1215/iiif2neon/internal/log"
	"github.com/nao1215/iiif2neon/internal/model"
	"github.com/nao1215/iiif2neon/internal/neon"
	"github.com/nao1215/iiif2neon/internal/pipeline"
	"github.com/nao1215/iiif2neon/internal/report"
	"github.com/nao1215/iiif2neon/internal/transport"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [manifest-url-or-file]...",
		Short: "Convert IIIF manifests into Neon annotation manifests",
		Long: `Convert fetches each IIIF Presentation 2 manifest and writes the matching
Neon manifest: one annotation per canvas of the first sequence, each holding
a placeholder MEI document sized to its canvas.

Sources are converted one at a time. Any failure stops the run with a
non-zero exit status, and nothing is written for the failing source.

Examples:
  # Convert a remote manifest and print the result
  iiif2neon convert https://iiif.example.org/manuscript/manifest.json

  # Convert a local file into out.jsonld
  iiif2neon convert -o out.jsonld ./manifest.json

  # Convert several manifests, one file per manifest named after its title
  iiif2neon convert -O neon/ https://a.example/manifest https://b.example/manifest

  # Convert a standalone canvas document
  iiif2neon convert --type sc:Canvas https://iiif.example.org/canvas/1

  # Print a Markdown summary instead of the manifest
  iiif2neon convert --markdown ./manifest.json

  # Route requests through a SOCKS5 proxy with a 30 second timeout
  iiif2neon convert -x 127.0.0.1:1080 -t 30s https://iiif.example.org/manifest`,
		Args: cobra.ArbitraryArgs,
		RunE: runConvertCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write the result to the specified file (single source only)")
	cmd.Flags().StringP("output-dir", "O", "",
		"Write one file per source into this directory, named after the manifest title")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown summary instead of the manifest (mutually exclusive with --summary)")
	cmd.Flags().BoolP("summary", "s", false,
		"Write a terminal summary table instead of the manifest (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("indent", "i", false,
		"Indent the JSON output (default when writing to a terminal)")

	// Fetch flags
	cmd.Flags().String("type", config.DefaultExpectedType,
		"Required @type of each source; sc:Canvas converts standalone canvases, empty disables the check")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request; 0 waits indefinitely")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address (host:port or socks5://host:port)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum manifest size in bytes")

	// Generation flags
	cmd.Flags().IntP("workers", "w", config.NewConfig().Workers,
		"Number of canvases rendered concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .iiif2neon in current or home directory)")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runConvert(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.SummaryReport, err = flags.GetBool("summary"); err != nil {
		return nil, err
	}
	if cfg.Indent, err = flags.GetBool("indent"); err != nil {
		return nil, err
	}
	if cfg.ExpectedType, err = flags.GetString("type"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicit config path must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	cfg.ApplyFile(flags.Changed)

	cfg.Sources = args
	return cfg, nil
}

// newFetcher builds the fetcher described by cfg.
func newFetcher(cfg *config.Config, logger *slog.Logger) (*iiif.Fetcher, error) {
	client, err := transport.NewHTTPClient(
		transport.WithProxy(cfg.ProxyAddress),
		transport.WithTimeout(cfg.Timeout),
		transport.WithHeaders(cfg.File),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return iiif.NewFetcher(
		iiif.WithHTTPClient(client),
		iiif.WithLogger(logger),
		iiif.WithUserAgent(cfg.UserAgent),
		iiif.WithMaxBodySize(cfg.MaxBodySize),
		iiif.WithManifestType(cfg.ExpectedType),
	), nil
}

// runConvert converts every source in order and stops at the first failure.
func runConvert(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	generator := neon.NewGenerator(
		neon.WithWorkers(cfg.Workers),
		neon.WithLogger(logger),
	)
	p := pipeline.DefaultPipeline(fetcher, generator, pipeline.WithLogger(logger))

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	names := newNameAllocator()
	for _, source := range cfg.Sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(stderr, "Retrieving %s...\n", source)
		conv := model.NewConversion(source)
		if err := p.Execute(ctx, conv); err != nil {
			return fmt.Errorf("failed to convert %s: %w", source, err)
		}

		dest, err := writeOutput(cfg, conv, names, stdout)
		if err != nil {
			return fmt.Errorf("failed to write result of %s: %w", source, err)
		}
		if dest != "" {
			fmt.Fprintf(stderr, "Wrote %d annotations to %s in %s\n",
				len(conv.Output.Annotations), dest, conv.Duration.Round(time.Millisecond))
		}
	}

	return nil
}

// writeOutput renders conv in the configured format and writes it to its
// destination. The result is rendered in memory first so a failing writer
// never leaves a truncated file. It returns the written path, or "" for
// stdout.
func writeOutput(cfg *config.Config, conv *model.Conversion, names *nameAllocator, stdout io.Writer) (string, error) {
	dest := cfg.OutputFile
	if cfg.OutputDir != "" {
		dest = filepath.Join(cfg.OutputDir, names.next(slugify(conv.Output.Title))+outputExtension(cfg))
	}

	var buf bytes.Buffer
	writer := newWriter(cfg, &buf, dest == "" && isTerminal(stdout))
	if _, err := writer.Write(conv); err != nil {
		return "", err
	}

	if dest == "" {
		_, err := stdout.Write(buf.Bytes())
		return "", err
	}

	dir := filepath.Dir(dest)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	return dest, nil
}

// newWriter selects the report writer for cfg.
func newWriter(cfg *config.Config, w io.Writer, terminal bool) report.Writer {
	switch {
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	case cfg.SummaryReport:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	case cfg.Indent || terminal:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	default:
		return report.NewJSONWriter(w)
	}
}

// outputExtension returns the file extension used with --output-dir.
func outputExtension(cfg *config.Config) string {
	switch {
	case cfg.MarkdownReport:
		return ".md"
	case cfg.SummaryReport:
		return ".txt"
	default:
		return config.DefaultOutputExtension
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// nameAllocator hands out unique file name stems within one run.
type nameAllocator struct {
	used map[string]bool
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{used: make(map[string]bool)}
}

// next returns stem, or stem-2, stem-3 and so on when stem was already taken.
func (a *nameAllocator) next(stem string) string {
	name := stem
	for i := 2; a.used[name]; i++ {
		name = stem + "-" + strconv.Itoa(i)
	}
	a.used[name] = true
	return name
}
