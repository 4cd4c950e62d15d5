// Package targets parses high-value-target name lists. Any non-empty trimmed
// line is a valid target name; case-insensitive matching against credentials
// is performed by the engine, not here.
package targets

import "strings"

// ParseContents returns the target names found in contents, one per non-empty
// trimmed line.
func ParseContents(contents string) []string {
	var names []string
	for _, line := range strings.Split(contents, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		names = append(names, trimmed)
	}
	return names
}
