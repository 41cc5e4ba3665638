package semantic

import "strings"

// SplitPageRange splits a raw page-range string like "34--56", "34-56" or
// "34" into start/stop. Only "--" and "-" separators are recognized; a
// lone value is returned as start with an empty stop.
func SplitPageRange(value string) (start, stop string) {
	value = strings.TrimSpace(value)
	if idx := strings.Index(value, "--"); idx != -1 {
		return strings.TrimSpace(value[:idx]), strings.TrimSpace(value[idx+2:])
	}
	if idx := strings.Index(value, "-"); idx != -1 {
		return strings.TrimSpace(value[:idx]), strings.TrimSpace(value[idx+1:])
	}
	return value, ""
}

// CollapsePages picks the single value an output dialect should emit when
// it has no separate start/stop fields: start-stop joined with "-", start
// alone, or articleNumber as a fallback start when no page range exists at
// all, per spec.md §4.5.
func CollapsePages(start, stop, articleNumber string) string {
	if start == "" {
		start = articleNumber
	}
	if stop == "" {
		return start
	}
	return start + "-" + stop
}
