package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"

	"github.com/junnyboy28/InteGreatai/internal/catalog"
	"github.com/junnyboy28/InteGreatai/internal/config"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// DefaultEnvTemplate is emitted when the analysis found no environment variables
const DefaultEnvTemplate = "# No environment variables needed"

// WrapperOptions controls how the generated integration material is delivered
type WrapperOptions struct {
	CatalogPath string
	Language    string // highlighting hint for the wrapper code; guessed when empty
	CodeOut     string // write the wrapper code here instead of printing it
	EnvOut      string // write the .env template here instead of printing it
	Out         io.Writer
	ErrOut      io.Writer
	Color       bool
}

func (o *WrapperOptions) setDefaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.ErrOut == nil {
		o.ErrOut = os.Stderr
	}
}

// RunWrapper prints the integration notes of a saved analysis and delivers its
// wrapper code and environment template
func RunWrapper(opts WrapperOptions) error {
	opts.setDefaults()

	result, err := catalog.LoadFile(opts.CatalogPath)
	if err != nil {
		return err
	}
	return writeDeliverables(result, opts)
}

// EnvTemplate returns the result's .env template, or the placeholder when empty
func EnvTemplate(result *types.AnalysisResult) string {
	if strings.TrimSpace(result.EnvTemplate) == "" {
		return DefaultEnvTemplate
	}
	return result.EnvTemplate
}

func writeDeliverables(result *types.AnalysisResult, opts WrapperOptions) error {
	if notes := strings.TrimSpace(result.SuggestedIntegration); notes != "" {
		fmt.Fprintln(opts.Out, sectionTitle("Integration notes", opts.Color))
		fmt.Fprintln(opts.Out, highlight(notes, "markdown", opts.Color))
		fmt.Fprintln(opts.Out)
	}

	switch {
	case strings.TrimSpace(result.WrapperCode) == "":
		fmt.Fprintln(opts.ErrOut, "No wrapper code was generated")
	case opts.CodeOut != "":
		if err := writeTextFile(opts.CodeOut, result.WrapperCode); err != nil {
			return err
		}
		fmt.Fprintf(opts.ErrOut, "Saved wrapper code to %s\n", opts.CodeOut)
	default:
		fmt.Fprintln(opts.Out, sectionTitle("Wrapper code", opts.Color))
		fmt.Fprintln(opts.Out, highlight(result.WrapperCode, opts.Language, opts.Color))
		fmt.Fprintln(opts.Out)
	}

	env := EnvTemplate(result)
	if opts.EnvOut != "" {
		if err := writeTextFile(opts.EnvOut, env); err != nil {
			return err
		}
		fmt.Fprintf(opts.ErrOut, "Saved environment template to %s\n", opts.EnvOut)
		return nil
	}
	fmt.Fprintln(opts.Out, sectionTitle("Environment (.env)", opts.Color))
	fmt.Fprintln(opts.Out, highlight(env, "bash", opts.Color))
	return nil
}

func sectionTitle(title string, color bool) string {
	if !color {
		return "== " + title + " =="
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render(title)
}

// highlight colors src for the terminal; an unknown lexer is guessed from the source
func highlight(src, lexer string, color bool) string {
	if !color {
		return src
	}
	var sb strings.Builder
	if err := quick.Highlight(&sb, src, lexer, "terminal256", "monokai"); err != nil {
		return src
	}
	return sb.String()
}

func writeTextFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
