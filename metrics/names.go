package metrics

import (
	"regexp"
	"strings"
)

var nonAllowedMetricCharsRegex = regexp.MustCompile("[^a-zA-Z0-9_]")

// ReplaceNonAllowedMetricCharacters replaces non-allowed characters in the given metric string with underscores.
func ReplaceNonAllowedMetricCharacters(metric string) string {
	return nonAllowedMetricCharsRegex.ReplaceAllString(metric, "_")
}

// metricName sanitizes every path element and joins them with separator.
// Empty elements are skipped.
func metricName(separator string, path ...string) string {
	elements := make([]string, 0, len(path))
	for _, element := range path {
		if element == "" {
			continue
		}
		elements = append(elements, ReplaceNonAllowedMetricCharacters(element))
	}
	return strings.Join(elements, separator)
}
