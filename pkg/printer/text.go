package printer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joshuapare/axtree/pkg/axtree"
)

func (p *Printer) printTreeText(start *axtree.Node) error {
	if start == nil {
		return nil
	}
	return p.view.WalkFrom(start.ID(), func(n *axtree.Node, depth int) error {
		p.printNodeText(n, depth)
		if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
			if n.ChildCount() > 0 {
				indent := strings.Repeat(" ", (depth+1)*p.opts.IndentSize)
				fmt.Fprintf(p.writer, "%s... (%d children)\n", indent, n.ChildCount())
			}
			return axtree.SkipChildren
		}
		return nil
	})
}

// printNodeText prints one line: "#id" followed by optional metadata and a
// payload preview.
func (p *Printer) printNodeText(n *axtree.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", depth*p.opts.IndentSize))
	b.WriteString(n.ID().String())

	if p.opts.PrintMetadata {
		if n.IsRoot() {
			b.WriteString(" (root")
		} else {
			fmt.Fprintf(&b, " (parent=%s index=%d", n.ParentID(), n.IndexInParent())
		}
		fmt.Fprintf(&b, " children=%d gen=%d)", n.ChildCount(), n.Generation())
	}

	if p.opts.ShowData && len(n.Data()) > 0 {
		b.WriteString(" ")
		b.WriteString(formatData(n.Data(), p.opts.MaxDataBytes))
	}
	b.WriteString("\n")
	fmt.Fprint(p.writer, b.String())
}

// formatData quotes printable UTF-8 payloads and hex-encodes the rest,
// truncating to limit bytes when limit > 0.
func formatData(data []byte, limit int) string {
	shown := data
	truncated := false
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
		truncated = true
		if utf8.Valid(data) {
			// Cut on a rune boundary.
			for len(shown) > 0 && !utf8.Valid(shown) {
				shown = shown[:len(shown)-1]
			}
		}
	}

	var out string
	if isPrintable(shown) {
		out = strconv.Quote(string(shown))
	} else {
		out = "0x" + hex.EncodeToString(shown)
	}
	if truncated {
		out += fmt.Sprintf("... (%d bytes)", len(data))
	}
	return out
}

func isPrintable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) && r != '\t' {
			return false
		}
	}
	return true
}
