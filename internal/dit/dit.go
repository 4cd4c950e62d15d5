// Package dit parses NTDS export (DIT dump) lines of the form
// `logon_name:user_id:lm_hash:nt_hash`. Lines may carry extra trailing
// colon-delimited fields, which are ignored.
package dit

import (
	"fmt"
	"strings"

	"tattletale/internal/credential"
)

// ErrMalformedLine reports a line with fewer than the four required fields.
type ErrMalformedLine struct {
	Line string
}

func (e *ErrMalformedLine) Error() string {
	return fmt.Sprintf("malformed DIT line: %s", e.Line)
}

// ParseLine parses a single DIT export line into a credential. The caller is
// expected to pass a trimmed, non-empty line.
func ParseLine(line string) (credential.Credential, error) {
	parts := strings.SplitN(line, ":", 5)
	if len(parts) < 4 {
		return credential.Credential{}, &ErrMalformedLine{Line: line}
	}

	c := credential.New()
	c.FillFromDIT(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[2]), strings.TrimSpace(parts[3]))
	return c, nil
}

// ParseContents parses whole DIT file contents, skipping blank and malformed
// lines.
func ParseContents(contents string) []credential.Credential {
	var creds []credential.Credential
	for _, line := range strings.Split(contents, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if c, err := ParseLine(trimmed); err == nil {
			creds = append(creds, c)
		}
	}
	return creds
}
