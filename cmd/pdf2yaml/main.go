// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2yaml CLI. It converts a PDF
// into Markdown and, unless asked for Markdown only, wraps it in a YAML PRD
// template for manual authoring.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2yaml/internal/convert"
	"github.com/pdiddy/pdf2yaml/internal/history"
	"github.com/pdiddy/pdf2yaml/internal/output"
	"github.com/pdiddy/pdf2yaml/internal/pipeline"
	"github.com/pdiddy/pdf2yaml/internal/secrets"
	"github.com/pdiddy/pdf2yaml/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// converterFactory builds converters for the pipeline. Tests replace it.
var converterFactory pipeline.ConverterFactory = convert.New

// cli carries the state shared by the commands of one invocation.
type cli struct {
	v       *viper.Viper
	secrets map[string]string
}

// secretDefault returns value when it is set, and the named secret otherwise.
func (c *cli) secretDefault(value, key string) string {
	if value != "" {
		return value
	}
	return c.secrets[key]
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "pdf2yaml <pdf_file>",
		Short: "Convert PDF PRDs to YAML format",
		Long: `pdf2yaml converts a PDF product requirements document into Markdown and
wraps it in a YAML PRD template. The original Markdown is kept at the end of
the file so the TODO sections can be filled in by hand.`,
		Example: `  pdf2yaml input.pdf                    # Convert to input.yaml
  pdf2yaml input.pdf -o output.yaml     # Specify output file
  pdf2yaml input.pdf -m                 # Save markdown only
  pdf2yaml input.pdf --keep-headers     # Keep PDF headers/footers
  pdf2yaml input.pdf -o s3://prds/input.yaml`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.convert(cmd, args[0])
		},
	}

	flags := root.Flags()
	flags.StringP("output", "o", "", "output file path or s3://bucket/key (default: input_name.yaml)")
	flags.BoolP("markdown-only", "m", false, "output markdown only without YAML template")
	flags.Bool("keep-headers", false, "keep PDF headers and footers")
	flags.Bool("include-empty-tables", false, "include empty tables in output")
	flags.String("backend", string(types.BackendNative), "conversion backend: native or markitdown")
	flags.String("table-header", types.DefaultTableHeader, "heading placed above extracted tables")
	flags.Bool("history", false, "record this run in the conversion history")
	root.PersistentFlags().String("config", "", "config file (default: ./pdf2yaml.yaml or ~/.config/pdf2yaml/config.yaml)")

	for key, flag := range map[string]string{
		"markdown_only":        "markdown-only",
		"keep_headers":         "keep-headers",
		"include_empty_tables": "include-empty-tables",
		"backend":              "backend",
		"table_header":         "table-header",
		"history.enabled":      "history",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.AddCommand(newHistoryCmd(c), newVersionCmd())
	return root
}

// init loads the config file, environment, and .secrets/ directory.
func (c *cli) init(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		c.v.SetConfigFile(cfgFile)
	} else {
		c.v.SetConfigName("pdf2yaml")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(home, ".config", "pdf2yaml"))
		}
	}

	c.v.SetEnvPrefix("PDF2YAML")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", c.v.ConfigFileUsed())
	} else if cfgFile != "" {
		return fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}

	s, err := secrets.Load(".secrets/", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.secrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
	}
	return nil
}

// config returns the settings read from flags, config file, and environment.
func (c *cli) config() types.Config {
	historyPath := c.v.GetString("history.path")
	if historyPath == "" {
		historyPath, _ = history.DefaultPath()
	}
	return types.Config{
		Backend:     types.ConversionBackend(c.v.GetString("backend")),
		TableHeader: c.v.GetString("table_header"),
		S3: types.S3Config{
			Region:          c.v.GetString("s3.region"),
			Endpoint:        c.v.GetString("s3.endpoint"),
			AccessKeyID:     c.secretDefault(c.v.GetString("s3.access_key_id"), "aws-access-key-id"),
			SecretAccessKey: c.secretDefault(c.v.GetString("s3.secret_access_key"), "aws-secret-access-key"),
		},
		History: types.HistoryConfig{
			Enabled: c.v.GetBool("history.enabled"),
			Path:    historyPath,
		},
	}
}

// request builds the conversion request for pdfPath.
func (c *cli) request(cmd *cobra.Command, pdfPath string, cfg types.Config) types.Request {
	outputPath, _ := cmd.Flags().GetString("output")
	mode := types.ModeTemplate
	if c.v.GetBool("markdown_only") {
		mode = types.ModeMarkdown
	}
	return types.Request{
		InputPath:       pdfPath,
		OutputPath:      outputPath,
		Mode:            mode,
		RemoveHeaders:   !c.v.GetBool("keep_headers"),
		SkipEmptyTables: !c.v.GetBool("include_empty_tables"),
		TableHeader:     cfg.TableHeader,
		Backend:         cfg.Backend,
	}
}

func (c *cli) convert(cmd *cobra.Command, pdfPath string) error {
	cfg := c.config()
	req := c.request(cmd, pdfPath, cfg)

	p := pipeline.New(&output.Router{
		NewS3: func(ctx context.Context) (output.Sink, error) {
			return output.NewS3Sink(ctx, cfg.S3)
		},
	})
	p.NewConverter = converterFactory
	p.Out = cmd.OutOrStdout()
	p.Err = cmd.ErrOrStderr()

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			p.Recorder = store
		}
	}

	_, err := p.Run(cmd.Context(), req)
	return err
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		pipeline.ReportError(stdout, err)
		if types.KindOf(err) == "" {
			fmt.Fprintf(stdout, "Run '%s --help' for usage.\n", root.Name())
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
