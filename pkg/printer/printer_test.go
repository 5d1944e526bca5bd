package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/types"
)

func sampleTree(t *testing.T) *axtree.Tree {
	t.Helper()
	tree := axtree.NewTree()
	_, err := tree.ApplyUpdate(axtree.NewBatch(1).
		Add(1, []byte(`{"role":"window"}`), 2, 3).
		Add(2, []byte("OK button"), 4).
		Add(3, []byte{0x00, 0x01, 0xff}).
		Add(4, nil))
	require.NoError(t, err)
	return tree
}

func render(t *testing.T, tree *axtree.Tree, opts Options, fn func(p *Printer) error) string {
	t.Helper()
	var buf bytes.Buffer
	var err error
	tree.Read(func(v axtree.View) {
		err = fn(New(v, &buf, opts))
	})
	require.NoError(t, err)
	return buf.String()
}

func TestPrinter_PrintTree_Text(t *testing.T) {
	tree := sampleTree(t)
	out := render(t, tree, DefaultOptions(), func(p *Printer) error { return p.PrintTree(types.NoNode) })

	require.Equal(t, `#1 "{\"role\":\"window\"}"
  #2 "OK button"
    #4
  #3 0x0001ff
`, out)
}

func TestPrinter_Options_MaxDepth(t *testing.T) {
	tree := sampleTree(t)
	opts := DefaultOptions()
	opts.MaxDepth = 1
	opts.ShowData = false
	out := render(t, tree, opts, func(p *Printer) error { return p.PrintTree(types.NoNode) })

	require.Equal(t, "#1\n  #2\n    ... (1 children)\n  #3\n", out)
}

func TestPrinter_Options_Metadata(t *testing.T) {
	tree := sampleTree(t)
	opts := DefaultOptions()
	opts.PrintMetadata = true
	opts.ShowData = false
	out := render(t, tree, opts, func(p *Printer) error { return p.PrintTree(2) })

	require.Equal(t, "#2 (parent=#1 index=0 children=1 gen=1)\n  #4 (parent=#2 index=0 children=0 gen=1)\n", out)
}

func TestPrinter_PrintTree_JSON(t *testing.T) {
	tree := sampleTree(t)
	opts := DefaultOptions()
	opts.Format = FormatJSON
	out := render(t, tree, opts, func(p *Printer) error { return p.PrintTree(types.NoNode) })

	var root map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.EqualValues(t, 1, root["id"])
	require.Equal(t, map[string]any{"role": "window"}, root["data"])

	children := root["children"].([]any)
	require.Len(t, children, 2)
	second := children[1].(map[string]any)
	require.Equal(t, "AAH/", second["data_b64"])
}

func TestPrinter_PrintTree_JSONMaxDepth(t *testing.T) {
	tree := sampleTree(t)
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.MaxDepth = 1
	out := render(t, tree, opts, func(p *Printer) error { return p.PrintTree(types.NoNode) })

	var root struct {
		Children []struct {
			ID         uint32 `json:"id"`
			Truncated  bool   `json:"truncated"`
			ChildCount int    `json:"child_count"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.True(t, root.Children[0].Truncated)
	require.Equal(t, 1, root.Children[0].ChildCount)
	require.False(t, root.Children[1].Truncated)
}

func TestPrinter_PrintNode(t *testing.T) {
	tree := sampleTree(t)
	out := render(t, tree, DefaultOptions(), func(p *Printer) error { return p.PrintNode(2) })
	require.Equal(t, "#2 \"OK button\"\n", out)

	var err error
	tree.Read(func(v axtree.View) {
		err = New(v, &bytes.Buffer{}, DefaultOptions()).PrintNode(42)
	})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestPrint_EmptyTree(t *testing.T) {
	tree := axtree.NewTree()
	var buf bytes.Buffer
	tree.Read(func(v axtree.View) {
		require.NoError(t, Print(&buf, v, DefaultOptions()))
	})
	require.Empty(t, buf.String())

	opts := DefaultOptions()
	opts.Format = FormatJSON
	tree.Read(func(v axtree.View) {
		require.NoError(t, Print(&buf, v, opts))
	})
	require.Equal(t, "null\n", buf.String())
}

func TestFormatData(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		limit int
		want  string
	}{
		{"text", []byte("hello"), 32, `"hello"`},
		{"binary", []byte{0xff, 0xfe}, 32, "0xfffe"},
		{"multi-byte rune", []byte("é"), 32, `"é"`},
		{"truncated text", []byte("abcdef"), 3, `"abc"... (6 bytes)`},
		{"truncated on rune", []byte("aé"), 2, `"a"... (3 bytes)`},
		{"unlimited", []byte("abcdef"), 0, `"abcdef"`},
		{"control chars", []byte("a\x01"), 0, "0x6101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatData(tt.data, tt.limit))
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, FormatText, opts.Format)
	require.Equal(t, DefaultIndentSize, opts.IndentSize)
	require.True(t, opts.ShowData)
	require.Equal(t, DefaultMaxDataBytes, opts.MaxDataBytes)
}
