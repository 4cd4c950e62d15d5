//go:build unix

package lineio

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var errMmapUnsupported = errors.New("mmap unsupported")

// mmapFile maps the file read-only and returns the mapped bytes with a
// release function. The mapping lives only for the duration of one file scan.
func mmapFile(f *os.File, size int64) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
