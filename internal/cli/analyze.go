package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/junnyboy28/InteGreatai/internal/catalog"
	"github.com/junnyboy28/InteGreatai/internal/config"
	"github.com/junnyboy28/InteGreatai/internal/converter"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// AnalyzeOptions contains options for fetching a catalog from the analyzer
type AnalyzeOptions struct {
	AnalyzerURL string
	Request     catalog.AnalyzeRequest
	OutputPath  string
	WrapperOut  string // wrapper code file; printed when empty
	EnvOut      string // .env template file; printed when empty
	Out         io.Writer
	ErrOut      io.Writer
	Color       bool
}

// RunAnalyze asks the analysis backend for a catalog and saves it
func RunAnalyze(ctx context.Context, opts AnalyzeOptions) (*types.AnalysisResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	fmt.Fprintf(opts.ErrOut, "Analyzing %s...\n", opts.Request.DocumentationURL)
	result, err := catalog.NewClient(opts.AnalyzerURL, nil).Analyze(ctx, opts.Request)
	if err != nil {
		return nil, err
	}

	if err := saveCatalog(opts.OutputPath, result, opts.ErrOut); err != nil {
		return result, err
	}

	err = writeDeliverables(result, WrapperOptions{
		Language: opts.Request.PreferredLanguage,
		CodeOut:  opts.WrapperOut,
		EnvOut:   opts.EnvOut,
		Out:      opts.Out,
		ErrOut:   opts.ErrOut,
		Color:    opts.Color,
	})
	return result, err
}

// ImportOptions contains options for building a catalog from an OpenAPI spec
type ImportOptions struct {
	SpecPath   string // file path or URL
	OutputPath string
	ErrOut     io.Writer
}

// RunImportOpenAPI converts an OpenAPI spec into a catalog file
func RunImportOpenAPI(ctx context.Context, opts ImportOptions) (*types.AnalysisResult, error) {
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	spec, err := converter.LoadOpenAPISpec(ctx, opts.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	result := converter.ToCatalog(spec)
	if err := saveCatalog(opts.OutputPath, result, opts.ErrOut); err != nil {
		return result, err
	}
	if base := spec.BaseURL(); base != "" {
		fmt.Fprintf(opts.ErrOut, "Suggested base URL: %s\n", base)
	}
	return result, nil
}

// saveCatalog writes the catalog, defaulting to catalog.json in the working directory
func saveCatalog(path string, result *types.AnalysisResult, errOut io.Writer) error {
	if path == "" {
		path = "catalog.json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := catalog.SaveFile(path, result, config.FilePermissions); err != nil {
		return err
	}
	fmt.Fprintf(errOut, "Saved %d endpoints to %s\n", len(result.Endpoints), path)
	return nil
}
