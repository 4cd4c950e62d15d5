// Package engine orchestrates parsing of NTDS exports, potfiles, and target
// lists, merges crack results, deduplicates credentials, and marks
// high-value targets. File-based loading streams lines through
// internal/lineio and is available in sequential and data-parallel forms
// that produce content-identical results.
package engine

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tattletale/internal/credential"
	"tattletale/internal/dit"
	"tattletale/internal/lineio"
	"tattletale/internal/pot"
	"tattletale/internal/targets"
)

// ParseStats counts malformed lines skipped during file-based loading. The
// counts are informational; malformed lines never abort a load.
type ParseStats struct {
	DITMalformed int
	PotMalformed int
}

// Engine aggregates parsed credentials and exposes loading helpers. An
// engine owns its credential set exclusively between loads; concurrent loads
// on one instance are not supported.
type Engine struct {
	Credentials []credential.Credential

	// ParseStats is populated by the file-based loaders and nil after
	// LoadFromStrings.
	ParseStats *ParseStats

	log *zap.Logger
}

// New returns an empty engine with no loaded credentials.
func New() *Engine {
	return &Engine{log: zap.NewNop()}
}

// WithLogger sets the logger used for per-file load diagnostics.
func (e *Engine) WithLogger(log *zap.Logger) *Engine {
	if log != nil {
		e.log = log
	}
	return e
}

// targetEntry records which source files contributed a target name.
type targetEntry struct {
	files []string
}

// LoadFromStrings loads inputs already held in memory. Intended for tests and
// small programmatic integrations; it performs the same cracking,
// deduplication, and target marking as the file loaders but reports no parse
// counters.
func (e *Engine) LoadFromStrings(dits, pots, tgts []string) {
	var creds []credential.Credential
	for _, contents := range dits {
		creds = append(creds, dit.ParseContents(contents)...)
	}

	potMerged := make(map[string]string)
	for _, contents := range pots {
		for hash, password := range pot.ParseContents(contents) {
			potMerged[hash] = password
		}
	}

	targetNames := make(map[string]*targetEntry)
	for _, contents := range tgts {
		for _, name := range targets.ParseContents(contents) {
			key := strings.ToLower(name)
			if targetNames[key] == nil {
				targetNames[key] = &targetEntry{}
			}
		}
	}

	e.finalize(creds, potMerged, targetNames)
	e.ParseStats = nil
}

// LoadFromFiles streams the given files one after another, then cracks,
// deduplicates, and tags the merged results. An unreadable file aborts the
// load with an error naming the path; empty path lists are legal and
// contribute nothing.
func (e *Engine) LoadFromFiles(ditPaths, potPaths, targetPaths []string, mmapThreshold int64) error {
	stats := &ParseStats{}

	var creds []credential.Credential
	for _, path := range ditPaths {
		fileCreds, malformed, err := parseDITFile(path, mmapThreshold)
		if err != nil {
			return err
		}
		e.log.Debug("parsed DIT file",
			zap.String("path", path),
			zap.Int("credentials", len(fileCreds)),
			zap.Int("malformed", malformed))
		creds = append(creds, fileCreds...)
		stats.DITMalformed += malformed
	}

	potMerged := make(map[string]string)
	for _, path := range potPaths {
		entries, malformed, err := parsePotFile(path, mmapThreshold)
		if err != nil {
			return err
		}
		e.log.Debug("parsed potfile",
			zap.String("path", path),
			zap.Int("entries", len(entries)),
			zap.Int("malformed", malformed))
		for _, entry := range entries {
			potMerged[entry.hash] = entry.password
		}
		stats.PotMalformed += malformed
	}

	targetNames := make(map[string]*targetEntry)
	for _, path := range targetPaths {
		names, err := parseTargetFile(path, mmapThreshold)
		if err != nil {
			return err
		}
		e.log.Debug("parsed target file", zap.String("path", path), zap.Int("names", len(names)))
		mergeTargetNames(targetNames, names, path)
	}

	e.finalize(creds, potMerged, targetNames)
	e.ParseStats = stats
	return nil
}

// LoadFromFilesParallel is the data-parallel variant of LoadFromFiles. Each
// file is parsed as an independent unit of work on a bounded worker pool;
// per-file results are merged in stable file-list order afterward so the
// last-wins potfile rule and the final credential set match the sequential
// loader exactly. Cracking, deduplication, and tagging always run
// single-threaded over the merged data.
func (e *Engine) LoadFromFilesParallel(ctx context.Context, ditPaths, potPaths, targetPaths []string, mmapThreshold int64, workers int) error {
	eg, _ := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	var ditMalformed, potMalformed atomic.Int64
	ditResults := make([][]credential.Credential, len(ditPaths))
	potResults := make([][]potEntry, len(potPaths))
	targetResults := make([][]string, len(targetPaths))

	for i, path := range ditPaths {
		i, path := i, path
		eg.Go(func() error {
			fileCreds, malformed, err := parseDITFile(path, mmapThreshold)
			if err != nil {
				return err
			}
			ditResults[i] = fileCreds
			ditMalformed.Add(int64(malformed))
			return nil
		})
	}
	for i, path := range potPaths {
		i, path := i, path
		eg.Go(func() error {
			entries, malformed, err := parsePotFile(path, mmapThreshold)
			if err != nil {
				return err
			}
			potResults[i] = entries
			potMalformed.Add(int64(malformed))
			return nil
		})
	}
	for i, path := range targetPaths {
		i, path := i, path
		eg.Go(func() error {
			names, err := parseTargetFile(path, mmapThreshold)
			if err != nil {
				return err
			}
			targetResults[i] = names
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var creds []credential.Credential
	for _, fileCreds := range ditResults {
		creds = append(creds, fileCreds...)
	}
	potMerged := make(map[string]string)
	for _, entries := range potResults {
		for _, entry := range entries {
			potMerged[entry.hash] = entry.password
		}
	}
	targetNames := make(map[string]*targetEntry)
	for i, names := range targetResults {
		mergeTargetNames(targetNames, names, targetPaths[i])
	}

	e.finalize(creds, potMerged, targetNames)
	e.ParseStats = &ParseStats{
		DITMalformed: int(ditMalformed.Load()),
		PotMalformed: int(potMalformed.Load()),
	}
	return nil
}

// finalize applies crack results, deduplicates by the (logon name, effective
// hash) key, and tags targets. This runs single-threaded regardless of how
// parsing was distributed.
func (e *Engine) finalize(creds []credential.Credential, potMerged map[string]string, targetNames map[string]*targetEntry) {
	for i := range creds {
		if password, ok := potMerged[creds[i].HashText]; ok {
			creds[i].Crack(password)
		}
	}

	// Dedup keeps the first occurrence per key; all key-equal records carry
	// the same identity and crack state by construction.
	seen := make(map[string]struct{}, len(creds))
	deduped := creds[:0]
	for _, c := range creds {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, c)
	}

	for i := range deduped {
		entry, ok := targetNames[strings.ToLower(deduped[i].SAMAccountName)]
		if !ok {
			continue
		}
		deduped[i].IsTarget = true
		deduped[i].TargetFilenames = append([]string(nil), entry.files...)
	}

	e.Credentials = deduped
	e.log.Debug("load finalized",
		zap.Int("credentials", len(deduped)),
		zap.Int("pot_entries", len(potMerged)),
		zap.Int("target_names", len(targetNames)))
}

type potEntry struct {
	hash     string
	password string
}

func parseDITFile(path string, mmapThreshold int64) ([]credential.Credential, int, error) {
	var creds []credential.Credential
	malformed := 0
	err := lineio.EachLine(path, mmapThreshold, func(line string) error {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		c, err := dit.ParseLine(trimmed)
		if err != nil {
			malformed++
			return nil
		}
		creds = append(creds, c)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return creds, malformed, nil
}

func parsePotFile(path string, mmapThreshold int64) ([]potEntry, int, error) {
	var entries []potEntry
	malformed := 0
	err := lineio.EachLine(path, mmapThreshold, func(line string) error {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		hash, password, err := pot.ParseLine(trimmed)
		if err != nil {
			malformed++
			return nil
		}
		entries = append(entries, potEntry{hash: hash, password: password})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, malformed, nil
}

func parseTargetFile(path string, mmapThreshold int64) ([]string, error) {
	var names []string
	err := lineio.EachLine(path, mmapThreshold, func(line string) error {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			names = append(names, trimmed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func mergeTargetNames(dst map[string]*targetEntry, names []string, sourceFile string) {
	for _, name := range names {
		key := strings.ToLower(name)
		entry := dst[key]
		if entry == nil {
			entry = &targetEntry{}
			dst[key] = entry
		}
		if sourceFile != "" && !slices.Contains(entry.files, sourceFile) {
			entry.files = append(entry.files, sourceFile)
		}
	}
}
