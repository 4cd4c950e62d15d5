//go:build !unix

package lineio

import (
	"errors"
	"os"
)

var errMmapUnsupported = errors.New("mmap unsupported")

// mmapFile is unavailable on this platform; callers fall back to buffered
// reads.
func mmapFile(_ *os.File, _ int64) ([]byte, func() error, error) {
	return nil, nil, errMmapUnsupported
}
