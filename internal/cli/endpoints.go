package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/junnyboy28/InteGreatai/internal/catalog"
)

// RunEndpoints lists a catalog's endpoints with their parameters.
// format is text (default), json or yaml.
func RunEndpoints(w io.Writer, catalogPath, format string) error {
	result, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result.Endpoints, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(result.Endpoints)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
		return nil
	}

	if len(result.Endpoints) == 0 {
		fmt.Fprintln(w, "No endpoints found")
		return nil
	}

	for i, ep := range result.Endpoints {
		fmt.Fprintf(w, "%3d  %s\n", i, ep.Label())
		if ep.Description != "" {
			fmt.Fprintf(w, "     %s\n", ep.Description)
		}
		for _, p := range ep.Parameters.Pairs() {
			var flags []string
			if p.Spec.Type != "" {
				flags = append(flags, p.Spec.Type)
			}
			if p.Spec.Required {
				flags = append(flags, "required")
			}
			line := "     - " + p.Name
			if len(flags) > 0 {
				line += " (" + strings.Join(flags, ", ") + ")"
			}
			if p.Spec.Description != "" {
				line += ": " + p.Spec.Description
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(result.AuthMethods) > 0 {
		fmt.Fprintln(w, "\nAuthentication:")
		for _, a := range result.AuthMethods {
			fmt.Fprintf(w, "  %s: %s\n", a.Type, a.Description)
		}
	}
	return nil
}
