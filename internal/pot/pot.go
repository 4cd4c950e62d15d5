// Package pot parses hashcat potfile lines mapping a hash to its recovered
// cleartext password.
//
// Two line shapes are accepted. The plain form `hash:password` splits on the
// first colon only, so the password may itself contain colons. The prefixed
// form `domain\account:hash:password` is detected when the text before the
// first colon contains a backslash; the hash is then the segment between the
// first and second colon and everything after the second colon is the
// password. The account prefix is discarded.
package pot

import (
	"fmt"
	"strings"
)

// ErrMalformedLine reports a potfile line with no colon separator.
type ErrMalformedLine struct {
	Line string
}

func (e *ErrMalformedLine) Error() string {
	return fmt.Sprintf("malformed pot line: %s", e.Line)
}

// ParseLine parses a single potfile line into a (hash, password) pair. The
// caller is expected to pass a trimmed, non-empty line.
func ParseLine(line string) (hash, password string, err error) {
	head, rest, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", &ErrMalformedLine{Line: line}
	}
	if strings.Contains(head, `\`) {
		// Prefixed form: the first segment is domain\account, the hash
		// follows. A prefix with no second colon leaves an empty password.
		hash, password, _ = strings.Cut(rest, ":")
		return strings.TrimSpace(hash), strings.TrimSpace(password), nil
	}
	return strings.TrimSpace(head), strings.TrimSpace(rest), nil
}

// ParseContents parses whole potfile contents into a hash-to-password map,
// skipping blank and malformed lines. Later lines overwrite earlier ones for
// the same hash.
func ParseContents(contents string) map[string]string {
	merged := make(map[string]string)
	for _, line := range strings.Split(contents, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if hash, password, err := ParseLine(trimmed); err == nil {
			merged[hash] = password
		}
	}
	return merged
}
