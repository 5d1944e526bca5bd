//go:build linux || darwin || freebsd

package mmfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping outlives the descriptor

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &File{data: []byte{}}, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	// Decoders read front to back; the hint is advisory.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &File{data: data, unmap: unix.Munmap}, nil
}
