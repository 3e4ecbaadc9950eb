package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/catalog"
	"github.com/junnyboy28/InteGreatai/internal/cli"
	"github.com/junnyboy28/InteGreatai/internal/collection"
	"github.com/junnyboy28/InteGreatai/internal/config"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/logger"
	"github.com/junnyboy28/InteGreatai/internal/playground"
	"github.com/junnyboy28/InteGreatai/internal/server"
	"github.com/junnyboy28/InteGreatai/internal/tui"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

var (
	version = "0.1.0"

	// Resolved in PersistentPreRunE
	cfg *config.Config
	log *logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, cli.ErrFailedStatus) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "integreat",
	Short: "InteGreat - API playground and collection exporter",
	Long: `InteGreat turns an endpoint catalog, produced by documentation analysis or
imported from an OpenAPI spec, into live test requests and Postman collections.

Examples:
  integreat analyze https://docs.example.com --use-case "sync orders" -o catalog.json
  integreat endpoints catalog.json
  integreat wrapper catalog.json --wrapper-out client.py --env-out .env
  integreat test catalog.json "GET /users" --base-url https://api.example.com -P page=2
  integreat export catalog.json --name "My API" --base-url https://api.example.com
  integreat play catalog.json --base-url https://api.example.com
  integreat serve --catalog catalog.json`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		opts := config.DefaultOptions()
		opts.ConfigFile = flagConfig
		opts.Flags = cmd.Flags()

		var err error
		cfg, err = config.Load(opts)
		if err != nil {
			return err
		}

		log = logger.FromSettings(cfg.LogLevel, cfg.LogFormat)
		if cfg.ConfigFileUsed != "" {
			log.Debugf("using config file %s", cfg.ConfigFileUsed)
		}
		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test <catalog> [endpoint]",
	Short: "Send one request to an endpoint from the catalog",
	Long: `Send one request to an endpoint and print the response envelope.

The endpoint is a 0-based index, an exact "METHOD path" or a fuzzy query.
Without one, an interactive list is shown. Exits with status 1 when the
response status is 400 or above.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		selector := ""
		if len(args) > 1 {
			selector = args[1]
		}

		ctx, stop := signalContext()
		defer stop()

		_, err := cli.RunTest(ctx, cli.TestOptions{
			CatalogPath:  args[0],
			Selector:     selector,
			BaseURL:      cfg.BaseURL,
			Params:       flagParams,
			Headers:      flagHeaders,
			Body:         flagBody,
			ProxyURL:     flagProxy,
			OutputFormat: flagOutput,
			ShowFull:     flagFull,
			Filter:       flagFilter,
			Query:        flagQuery,
			SavePath:     flagSave,
			Timeout:      cfg.Timeout,
			TLS:          tlsConfig(),
			Color:        cli.IsTerminal(os.Stdout),
			Logger:       log,
		})
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <catalog>",
	Short: "Export the catalog as a Postman Collection v2.1 file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.RunExport(cli.ExportOptions{
			CatalogPath: args[0],
			Name:        flagName,
			BaseURL:     cfg.BaseURL,
			Description: cfg.Collection.Description,
			OutputPath:  flagExportOutput,
			Copy:        flagCopy,
			Stdout:      flagStdout,
			Prompt:      !flagStdout,
		})
		return err
	},
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints <catalog>",
	Short: "List the endpoints of a catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunEndpoints(os.Stdout, args[0], flagOutput)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <documentation-url>",
	Short: "Analyze API documentation and save the endpoint catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		_, err := cli.RunAnalyze(ctx, cli.AnalyzeOptions{
			AnalyzerURL: cfg.AnalyzerURL,
			Request: catalog.AnalyzeRequest{
				DocumentationURL:  args[0],
				UseCase:           flagUseCase,
				PreferredLanguage: flagLanguage,
			},
			OutputPath: flagCatalogOutput,
			WrapperOut: flagWrapperOut,
			EnvOut:     flagEnvOut,
			Color:      cli.IsTerminal(os.Stdout),
		})
		return err
	},
}

var wrapperCmd = &cobra.Command{
	Use:   "wrapper <catalog>",
	Short: "Show the integration notes, wrapper code and .env template of an analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunWrapper(cli.WrapperOptions{
			CatalogPath: args[0],
			Language:    flagCodeLanguage,
			CodeOut:     flagWrapperOut,
			EnvOut:      flagEnvOut,
			Color:       cli.IsTerminal(os.Stdout),
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import-openapi <spec-file-or-url>",
	Short: "Build an endpoint catalog from an OpenAPI specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		_, err := cli.RunImportOpenAPI(ctx, cli.ImportOptions{
			SpecPath:   args[0],
			OutputPath: flagCatalogOutput,
		})
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (test proxy and collection export)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var loaded *types.AnalysisResult
		if flagServeCatalog != "" {
			var err error
			if loaded, err = catalog.LoadFile(flagServeCatalog); err != nil {
				return err
			}
		}

		exec, err := newExecutor()
		if err != nil {
			return err
		}

		exporter := collection.NewExporter()
		exporter.Description = cfg.Collection.Description

		srv := server.New(server.Options{
			Addr:      cfg.Listen,
			Executor:  exec,
			Exporter:  exporter,
			Catalog:   loaded,
			RateLimit: cfg.RateLimit,
			RateBurst: cfg.RateBurst(),
			Logger:    log,
		})

		ctx, stop := signalContext()
		defer stop()
		return srv.Run(ctx)
	},
}

var playCmd = &cobra.Command{
	Use:   "play <catalog>",
	Short: "Start the interactive playground",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}

		headers := make([]types.HeaderRow, 0, len(flagHeaders))
		for _, line := range flagHeaders {
			row, err := builder.ParseHeaderRow(line)
			if err != nil {
				return err
			}
			headers = append(headers, row)
		}

		var transport executor.Transport
		if flagProxy != "" {
			transport = executor.NewProxyTransport(flagProxy, nil)
		} else if transport, err = newHTTPTransport(); err != nil {
			return err
		}

		// Logs would corrupt the alternate screen
		pg := playground.New(executor.New(transport, logger.Nop()), playground.WithCancelSuperseded(flagCancelStale))
		defer pg.Wait()

		return tui.Run(pg, loaded.Endpoints, tui.Options{BaseURL: cfg.BaseURL, Headers: headers})
	},
}

// Flags
var (
	flagConfig        string
	flagParams        []string
	flagHeaders       []string
	flagBody          string
	flagProxy         string
	flagOutput        string
	flagFull          bool
	flagFilter        string
	flagQuery         string
	flagSave          string
	flagName          string
	flagExportOutput  string
	flagCopy          bool
	flagStdout        bool
	flagUseCase       string
	flagLanguage      string
	flagCatalogOutput string
	flagWrapperOut    string
	flagEnvOut        string
	flagCodeLanguage  string
	flagServeCatalog  string
	flagCancelStale   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./config.yaml or ~/.integreat/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (auto, json, console)")

	testCmd.Flags().String("base-url", "", "Base URL of the API under test")
	testCmd.Flags().String("timeout", "", "Request timeout (e.g. 30s)")
	testCmd.Flags().StringArrayVarP(&flagParams, "param", "P", []string{}, "Parameter (name=value), can be repeated")
	testCmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", []string{}, "Header (\"Name: Value\"), can be repeated")
	testCmd.Flags().StringVarP(&flagBody, "body", "b", "", "Request body (JSON, - for stdin, @file)")
	testCmd.Flags().StringVar(&flagProxy, "proxy", "", "Send through an InteGreat server at this URL")
	testCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml/body)")
	testCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "Show full output (status, headers, body)")
	testCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied to the response body")
	testCmd.Flags().StringVar(&flagQuery, "query", "", "JMESPath query or $(shell command) applied after the filter")
	testCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save response to file")

	exportCmd.Flags().String("base-url", "", "Base URL for the collection requests")
	exportCmd.Flags().StringVar(&flagName, "name", "", "Collection name")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default <name>.postman_collection.json)")
	exportCmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the collection JSON to the clipboard")
	exportCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print the collection instead of writing a file")

	endpointsCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml)")

	analyzeCmd.Flags().String("analyzer-url", "", "Analysis backend URL")
	analyzeCmd.Flags().StringVar(&flagUseCase, "use-case", "", "What you want to build with the API")
	analyzeCmd.Flags().StringVar(&flagLanguage, "language", "python", "Preferred language for generated code")
	analyzeCmd.Flags().StringVarP(&flagCatalogOutput, "output", "o", "", "Catalog file to write (default catalog.json)")
	analyzeCmd.Flags().StringVar(&flagWrapperOut, "wrapper-out", "", "Write the generated wrapper code to this file")
	analyzeCmd.Flags().StringVar(&flagEnvOut, "env-out", "", "Write the .env template to this file")

	wrapperCmd.Flags().StringVar(&flagCodeLanguage, "language", "", "Language of the wrapper code, for highlighting")
	wrapperCmd.Flags().StringVar(&flagWrapperOut, "wrapper-out", "", "Write the wrapper code to this file")
	wrapperCmd.Flags().StringVar(&flagEnvOut, "env-out", "", "Write the .env template to this file")

	importCmd.Flags().StringVarP(&flagCatalogOutput, "output", "o", "", "Catalog file to write (default catalog.json)")

	serveCmd.Flags().String("listen", "", "Listen address (default :8000)")
	serveCmd.Flags().Float64("rate-limit", 0, "Test proxy requests per second")
	serveCmd.Flags().String("timeout", "", "Outbound request timeout (e.g. 30s)")
	serveCmd.Flags().StringVar(&flagServeCatalog, "catalog", "", "Catalog served at /api/endpoints")

	playCmd.Flags().String("base-url", "", "Base URL of the API under test")
	playCmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", []string{}, "Header (\"Name: Value\"), can be repeated")
	playCmd.Flags().StringVar(&flagProxy, "proxy", "", "Send through an InteGreat server at this URL")
	playCmd.Flags().BoolVar(&flagCancelStale, "cancel-stale", false, "Cancel an in-flight request when a newer one is sent")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(endpointsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(wrapperCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func tlsConfig() *types.TLSConfig {
	if cfg.TLS.IsZero() {
		return nil
	}
	tls := cfg.TLS
	return &tls
}

func newHTTPTransport() (*executor.HTTPTransport, error) {
	return executor.NewHTTPTransport(executor.HTTPOptions{Timeout: cfg.Timeout, TLS: tlsConfig()})
}

func newExecutor() (*executor.Executor, error) {
	transport, err := newHTTPTransport()
	if err != nil {
		return nil, err
	}
	return executor.New(transport, log), nil
}
