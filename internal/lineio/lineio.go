// Package lineio provides streaming line iteration over input files, choosing
// between a buffered reader and a read-only memory map based on file size.
// Both strategies yield byte-identical line sequences: the threshold is a
// performance knob, never a behavior knob.
package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMmapThreshold is the file size in bytes at or above which EachLine
// memory-maps the file instead of reading it through a buffer. Callers can
// override it per call.
const DefaultMmapThreshold int64 = 16 << 20 // 16 MiB

// ShouldUseMmap reports whether a file of the given size should be read via
// memory map under the given threshold.
func ShouldUseMmap(fileSize, threshold int64) bool {
	return fileSize >= threshold
}

// EachLine invokes fn for every line of the file at path, in order. Lines are
// stripped of their trailing newline and carriage return; the final line is
// delivered even without a terminating newline. Invalid UTF-8 is replaced
// with U+FFFD rather than aborting the scan. A non-nil error from fn stops
// the iteration and is returned as-is.
func EachLine(path string, mmapThreshold int64, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.Mode().IsRegular() && info.Size() > 0 && ShouldUseMmap(info.Size(), mmapThreshold) {
		data, unmap, err := mmapFile(f, info.Size())
		if err == nil {
			defer unmap()
			return eachLineBytes(data, fn)
		}
		if !errors.Is(err, errMmapUnsupported) {
			return fmt.Errorf("mmap %s: %w", path, err)
		}
		// No mmap on this platform; the buffered path below reads the same
		// lines.
	}
	return eachLineReader(f, fn)
}

// eachLineBytes scans a mapped region for newline boundaries without copying
// the whole file.
func eachLineBytes(data []byte, fn func(line string) error) error {
	for pos := 0; pos < len(data); {
		end := pos
		for end < len(data) && data[end] != '\n' {
			end++
		}
		if err := fn(lineString(data[pos:end])); err != nil {
			return err
		}
		pos = end + 1
	}
	return nil
}

func eachLineReader(r io.Reader, fn func(line string) error) error {
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadBytes('\n')
		if len(chunk) > 0 {
			line := chunk
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
			}
			if ferr := fn(lineString(line)); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// lineString converts raw line bytes to a string, dropping a trailing '\r'
// (Windows CRLF) and substituting U+FFFD for invalid UTF-8.
func lineString(b []byte) string {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}
	return strings.ToValidUTF8(string(b), "�")
}
