// Package printer renders trees for humans (indented text) and for tools
// (nested JSON).
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/types"
)

const (
	DefaultIndentSize   = 2
	DefaultMaxDepth     = 0
	DefaultMaxDataBytes = 32
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs one indented line per node.
	FormatText Format = "text"

	// FormatJSON outputs the subtree as a nested JSON object.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits how far below the starting node to print (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowData includes node payloads.
	// Default: true
	ShowData bool

	// MaxDataBytes limits how many payload bytes the text format shows.
	// Set to 0 for no limit.
	// Default: 32
	MaxDataBytes int

	// PrintMetadata includes parent, index, child count and generation.
	// Default: false
	PrintMetadata bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowData:      true,
		MaxDataBytes:  DefaultMaxDataBytes,
		PrintMetadata: false,
	}
}

// Printer writes nodes of one tree view.
type Printer struct {
	opts   Options
	writer io.Writer
	view   axtree.View
}

// New creates a Printer. The view must stay valid while printing, so call
// it inside Tree.Read.
//
// Example:
//
//	tree.Read(func(v axtree.View) {
//	    err = printer.New(v, os.Stdout, printer.DefaultOptions()).PrintTree(types.NoNode)
//	})
func New(v axtree.View, w io.Writer, opts Options) *Printer {
	return &Printer{
		view:   v,
		writer: w,
		opts:   opts,
	}
}

// PrintTree prints the subtree rooted at id, or the whole tree when id is
// NoNode. An empty tree prints nothing in text format and null in JSON.
func (p *Printer) PrintTree(id types.NodeID) error {
	start, err := p.start(id)
	if err != nil {
		return err
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printTreeJSON(start)
	default:
		return p.printTreeText(start)
	}
}

// PrintNode prints a single node without its descendants.
func (p *Printer) PrintNode(id types.NodeID) error {
	start, err := p.start(id)
	if err != nil {
		return err
	}
	if start == nil {
		return fmt.Errorf("print node: %w", types.ErrNotFound)
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printNodeJSON(start)
	default:
		p.printNodeText(start, 0)
		return nil
	}
}

func (p *Printer) start(id types.NodeID) (*axtree.Node, error) {
	if id == types.NoNode {
		return p.view.Root(), nil
	}
	n, ok := p.view.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	return n, nil
}

// Print renders the whole tree behind v to w.
func Print(w io.Writer, v axtree.View, opts Options) error {
	return New(v, w, opts).PrintTree(types.NoNode)
}
