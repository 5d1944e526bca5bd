//go:build !(linux || darwin || freebsd)

package mmfile

import "os"

// Open reads the whole file when mmap is not used on this platform.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}
