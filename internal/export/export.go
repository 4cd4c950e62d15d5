// Package export persists analysis results: a CSV of password hashes shared
// by two or more accounts, and a plain-text `logon:cleartext` dump of cracked
// entries. Filenames are timestamped and stamped with a per-run ID so exports
// can be correlated with log output.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"tattletale/internal/engine"
)

// Run names one export run: the output directory plus the timestamp and ID
// embedded in every file it writes.
type Run struct {
	Dir   string
	ID    string
	stamp string
}

// NewRun creates the output directory if needed and returns a run handle.
func NewRun(dir string) (*Run, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Run{
		Dir:   dir,
		ID:    uuid.NewString(),
		stamp: time.Now().Format("2006.01.02_15.04.05"),
	}, nil
}

// SharedHashesPath returns the CSV path this run writes.
func (r *Run) SharedHashesPath() string {
	return filepath.Join(r.Dir, fmt.Sprintf("tattletale_shared_hashes_%s.csv", r.stamp))
}

// UserPassPath returns the TXT path this run writes.
func (r *Run) UserPassPath() string {
	return filepath.Join(r.Dir, fmt.Sprintf("tattletale_user_pass_%s.txt", r.stamp))
}

// SaveSharedHashesCSV writes (hash, username) rows for every non-null hash
// shared by at least two accounts.
func (r *Run) SaveSharedHashesCSV(e *engine.Engine) error {
	byHash := make(map[string][]string)
	for i := range e.Credentials {
		c := &e.Credentials[i]
		if c.IsHashNull || c.HashText == "" {
			continue
		}
		byHash[c.HashText] = append(byHash[c.HashText], c.DownLevelLogonName)
	}

	path := r.SharedHashesPath()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Hash", "Username"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	hashes := make([]string, 0, len(byHash))
	for hash := range byHash {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)
	for _, hash := range hashes {
		users := byHash[hash]
		if len(users) < 2 {
			continue
		}
		for _, user := range users {
			if err := w.Write([]string{hash, user}); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// SaveUserPassTXT writes `logon_name:cleartext` lines for cracked entries
// only.
func (r *Run) SaveUserPassTXT(e *engine.Engine) error {
	path := r.UserPassPath()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	for i := range e.Credentials {
		c := &e.Credentials[i]
		if !c.IsCracked {
			continue
		}
		if _, err := fmt.Fprintf(f, "%s:%s\n", c.DownLevelLogonName, c.Cleartext); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
