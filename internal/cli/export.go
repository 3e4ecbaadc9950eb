package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/junnyboy28/InteGreatai/internal/catalog"
	"github.com/junnyboy28/InteGreatai/internal/collection"
	"github.com/junnyboy28/InteGreatai/internal/config"
)

// DefaultExportBaseURL is used when no base URL is given or configured
const DefaultExportBaseURL = "https://api.example.com"

// ExportOptions contains options for exporting a catalog as a Postman collection
type ExportOptions struct {
	CatalogPath string
	Name        string
	BaseURL     string
	Description string
	OutputPath  string // defaults to collection.FileName(name) in the working directory
	Copy        bool   // also copy the JSON to the clipboard
	Stdout      bool   // print instead of writing a file
	Prompt      bool   // ask for missing name and base URL

	Out    io.Writer
	ErrOut io.Writer
}

// RunExport builds the collection and writes it. It returns the written path,
// empty when printing to stdout.
func RunExport(opts ExportOptions) (string, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	result, err := catalog.LoadFile(opts.CatalogPath)
	if err != nil {
		return "", err
	}

	if opts.Prompt && isInteractive() {
		if opts.Name == "" {
			if opts.Name, err = promptForValue("Collection name", collection.DefaultName); err != nil {
				return "", err
			}
		}
		if opts.BaseURL == "" {
			if opts.BaseURL, err = promptForValue("Base URL", DefaultExportBaseURL); err != nil {
				return "", err
			}
		}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultExportBaseURL
	}

	exporter := collection.NewExporter()
	if opts.Description != "" {
		exporter.Description = opts.Description
	}

	doc, err := exporter.Export(result.Endpoints, opts.Name, opts.BaseURL)
	if err != nil {
		return "", err
	}

	data, err := collection.Marshal(doc)
	if err != nil {
		return "", err
	}

	if opts.Copy {
		if err := clipboard.WriteAll(string(data)); err != nil {
			fmt.Fprintf(opts.ErrOut, "Warning: failed to copy to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(opts.ErrOut, "Collection copied to clipboard")
		}
	}

	if opts.Stdout {
		fmt.Fprintln(opts.Out, string(data))
		return "", nil
	}

	path := opts.OutputPath
	if path == "" {
		path = collection.FileName(doc.Info.Name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write collection: %w", err)
	}

	fmt.Fprintf(opts.ErrOut, "Exported %d endpoints to %s\n", len(doc.Item), path)
	return path, nil
}
