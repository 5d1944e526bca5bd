package batch

import (
	"bytes"
	"fmt"
	"io"

	"github.com/joshuapare/axtree/internal/fsync"
	"github.com/joshuapare/axtree/internal/mmfile"
	"github.com/joshuapare/axtree/pkg/axtree"
)

// ReadFile decodes every batch in the file at path. opts.Path defaults to
// path so FormatAuto can use the extension.
func ReadFile(path string, opts Options) ([]*axtree.Batch, error) {
	f, err := mmfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	data, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	if opts.Path == "" {
		opts.Path = path
	}
	// Decoding copies everything it keeps, so the mapping can go away after.
	batches, err := DecodeAll(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batches, nil
}

// WriteFile durably replaces the file at path with the encoded batches.
func WriteFile(path string, opts Options, batches ...*axtree.Batch) error {
	if opts.Path == "" {
		opts.Path = path
	}
	return fsync.Write(path, 0o644, func(w io.Writer) error {
		return Encode(w, opts, batches...)
	})
}

// Stat summarises a decoded batch for logs and CLI output.
type Stat struct {
	Root      string `json:"root"`
	Records   int    `json:"records"`
	Children  int    `json:"children"`
	DataBytes int    `json:"data_bytes"`
}

// Summarize returns counts for b.
func Summarize(b *axtree.Batch) Stat {
	s := Stat{Root: b.RootID.String(), Records: len(b.Records)}
	for _, r := range b.Records {
		s.Children += len(r.Children)
		s.DataBytes += len(r.Data)
	}
	return s
}
