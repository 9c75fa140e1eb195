package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/componentize/internal/config"
	"github.com/mvp-joe/componentize/internal/extract"
	"github.com/mvp-joe/componentize/internal/render"
	"github.com/mvp-joe/componentize/internal/storage"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	input    string
	output   string
	manifest string
	quiet    bool
	cfg      *config.Config
	logger   *slog.Logger
	progress io.Writer
}

var (
	outputFlag          string
	formatFlag          string
	dbFlag              string
	manifestFlag        string
	quietFlag           bool
	visibilityGearsFlag bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <input.json>",
	Short: "Extract reusable components from a laid-out document",
	Long: `Extract reads a JSON document of the form {"nodes": [...], "resources": [...]},
groups structurally identical subtrees into component resources and writes the
rewritten tree together with the resources.

Use "-" to read the document from stdin.

Examples:
  # Extract and print JSON to stdout
  componentize extract page.json

  # Write YAML and persist resources to SQLite
  componentize extract page.json -o out.yaml --format yaml --db resources.db

  # Record the render jobs for alternate looks and icons
  componentize extract page.json --manifest renders.json
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (default is stdout)")
	extractCmd.Flags().StringVar(&formatFlag, "format", "", "output format: json or yaml (overrides output.format)")
	extractCmd.Flags().StringVar(&dbFlag, "db", "", "SQLite resource store (overrides output.resource_db)")
	extractCmd.Flags().StringVar(&manifestFlag, "manifest", "", "render job manifest file (overrides output.manifest)")
	extractCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	extractCmd.Flags().BoolVar(&visibilityGearsFlag, "visibility-gears", false, "add display gears to detected state layers")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.LoadConfigFromDir(dir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if flags.Changed("db") {
		cfg.Output.ResourceDB = dbFlag
	}
	if flags.Changed("manifest") {
		cfg.Output.Manifest = manifestFlag
	}
	if flags.Changed("visibility-gears") {
		cfg.Extract.VisibilityGears = visibilityGearsFlag
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	_, err = extractFile(ctx, extractOptions{
		input:    args[0],
		output:   outputFlag,
		manifest: cfg.Output.Manifest,
		quiet:    quietFlag,
		cfg:      cfg,
		logger:   logger,
		progress: cmd.ErrOrStderr(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("extraction cancelled")
		}
		return err
	}
	return nil
}

// extractFile runs one extraction from opts.input and writes every configured
// output.
func extractFile(ctx context.Context, opts extractOptions) (*extract.Result, error) {
	doc, err := readDocument(opts.input)
	if err != nil {
		return nil, err
	}

	ec, err := opts.cfg.ToExtractorConfig()
	if err != nil {
		return nil, err
	}
	manifest := render.NewManifest()
	ec.Pipeline = manifest
	ec.Logger = opts.logger

	if !opts.quiet {
		log.Printf("Extracting components from %s", opts.input)
	}
	ex := extract.NewWithProgress(ec, NewCLIProgressReporter(opts.progress, opts.quiet))
	result, err := ex.Run(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	if err := writeFile(opts.output, result, opts.cfg.Output.Format); err != nil {
		return nil, err
	}

	jobs := manifest.Jobs()
	if opts.manifest != "" {
		if err := writeFile(opts.manifest, jobs, opts.cfg.Output.Format); err != nil {
			return nil, err
		}
	}

	if opts.cfg.Output.ResourceDB != "" {
		writer, err := storage.NewResourceWriter(opts.cfg.Output.ResourceDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open resource store: %w", err)
		}
		defer writer.Close()
		if err := writer.WriteResult(result, jobs); err != nil {
			return nil, fmt.Errorf("failed to store resources: %w", err)
		}
		if !opts.quiet {
			log.Printf("Stored %d resources in %s", len(result.Resources), opts.cfg.Output.ResourceDB)
		}
	}

	return result, nil
}

func readDocument(path string) (*extract.Document, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc := &extract.Document{}
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode input document: %w", err)
	}
	return doc, nil
}

func writeFile(path string, v any, format string) error {
	if path == "" {
		return encode(os.Stdout, v, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f, v, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
