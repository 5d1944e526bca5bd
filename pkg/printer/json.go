package printer

import (
	"encoding/base64"
	"encoding/json"

	"github.com/joshuapare/axtree/pkg/axtree"
)

// jsonNode represents a node in JSON format.
type jsonNode struct {
	ID         uint32          `json:"id"`
	Parent     *uint32         `json:"parent,omitempty"`
	Index      *int            `json:"index,omitempty"`
	Generation uint64          `json:"generation,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	DataB64    string          `json:"data_b64,omitempty"`
	ChildCount int             `json:"child_count,omitempty"`
	Children   []jsonNode      `json:"children,omitempty"`
	Truncated  bool            `json:"truncated,omitempty"`
}

func (p *Printer) printTreeJSON(start *axtree.Node) error {
	if start == nil {
		return p.encode(nil)
	}
	return p.encode(p.buildJSONTree(start, 0))
}

func (p *Printer) printNodeJSON(n *axtree.Node) error {
	node := p.jsonNode(n)
	return p.encode(&node)
}

func (p *Printer) buildJSONTree(n *axtree.Node, depth int) *jsonNode {
	node := p.jsonNode(n)
	if n.ChildCount() == 0 {
		return &node
	}
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		node.Truncated = true
		node.ChildCount = n.ChildCount()
		return &node
	}
	node.Children = make([]jsonNode, 0, n.ChildCount())
	for i := 0; i < n.ChildCount(); i++ {
		node.Children = append(node.Children, *p.buildJSONTree(n.Child(i), depth+1))
	}
	return &node
}

func (p *Printer) jsonNode(n *axtree.Node) jsonNode {
	node := jsonNode{ID: uint32(n.ID())}
	if p.opts.PrintMetadata {
		node.Generation = n.Generation()
		node.ChildCount = n.ChildCount()
		if !n.IsRoot() {
			parent := uint32(n.ParentID())
			index := n.IndexInParent()
			node.Parent = &parent
			node.Index = &index
		}
	}
	if p.opts.ShowData && len(n.Data()) > 0 {
		if json.Valid(n.Data()) {
			node.Data = json.RawMessage(n.Data())
		} else {
			node.DataB64 = base64.StdEncoding.EncodeToString(n.Data())
		}
	}
	return node
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
