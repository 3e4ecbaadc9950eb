package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

// Select resolves a selector to one endpoint. The selector is tried as a
// 0-based index, then as an exact "METHOD path" label (case-insensitive
// method), then as a fuzzy query over the labels.
func Select(endpoints []types.Endpoint, selector string) (types.Endpoint, int, error) {
	selector = strings.TrimSpace(selector)
	if len(endpoints) == 0 {
		return types.Endpoint{}, -1, fmt.Errorf("catalog has no endpoints")
	}
	if selector == "" {
		return types.Endpoint{}, -1, fmt.Errorf("empty endpoint selector")
	}

	if idx, err := strconv.Atoi(selector); err == nil {
		if idx < 0 || idx >= len(endpoints) {
			return types.Endpoint{}, -1, fmt.Errorf("endpoint index %d out of range (0-%d)", idx, len(endpoints)-1)
		}
		return endpoints[idx], idx, nil
	}

	labels := Labels(endpoints)
	want := normalizeLabel(selector)
	for i, label := range labels {
		if label == want {
			return endpoints[i], i, nil
		}
	}

	matches := fuzzy.Find(selector, labels)
	if len(matches) == 0 {
		return types.Endpoint{}, -1, fmt.Errorf("no endpoint matches %q", selector)
	}
	best := matches[0]
	return endpoints[best.Index], best.Index, nil
}

// Labels returns the "METHOD path" label of every endpoint, in order
func Labels(endpoints []types.Endpoint) []string {
	labels := make([]string, len(endpoints))
	for i, ep := range endpoints {
		labels[i] = ep.Label()
	}
	return labels
}

func normalizeLabel(s string) string {
	method, path, found := strings.Cut(s, " ")
	if !found {
		return s
	}
	return types.NormalizeMethod(method) + " " + strings.TrimSpace(path)
}
