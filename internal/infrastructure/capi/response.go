package capi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// extractWarnings returns the top-level "warnings" array, or the warnings of
// every element of a batch response, or nil when there are none.
func extractWarnings(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var parsed struct {
		Warnings []json.RawMessage `json:"warnings"`
		Elements []struct {
			Warnings []json.RawMessage `json:"warnings"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	if len(parsed.Warnings) > 0 {
		return parsed.Warnings
	}

	var aggregated []json.RawMessage
	for _, element := range parsed.Elements {
		aggregated = append(aggregated, element.Warnings...)
	}
	if len(aggregated) > 0 {
		return aggregated
	}

	return nil
}

func firstHeader(h http.Header, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
