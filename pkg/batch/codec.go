// Package batch reads and writes update batches as JSON or YAML documents.
//
// A document names the root and lists one entry per record:
//
//	{"root": 1, "nodes": [
//	  {"id": 1, "data": {"role": "window"}, "children": [2, 3]},
//	  {"id": 2, "data_b64": "AAE="},
//	  {"id": 3}
//	]}
//
// "data" holds any JSON value; its compact encoding becomes the payload.
// "data_b64" holds arbitrary bytes in standard base64. A record with neither
// has an empty payload. YAML documents use the same field names; YAML
// payload objects are re-encoded as JSON with sorted keys.
//
// A stream may hold several documents, applied in order.
package batch

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/types"
)

type document struct {
	Root  uint32   `json:"root" yaml:"root"`
	Nodes []record `json:"nodes" yaml:"nodes"`
}

type record struct {
	ID       uint32          `json:"id"`
	Data     json.RawMessage `json:"data,omitempty"`
	DataB64  string          `json:"data_b64,omitempty"`
	Children []uint32        `json:"children,omitempty"`
}

type yamlDocument struct {
	Root  uint32       `yaml:"root"`
	Nodes []yamlRecord `yaml:"nodes"`
}

type yamlRecord struct {
	ID       uint32   `yaml:"id"`
	Data     any      `yaml:"data,omitempty"`
	DataB64  string   `yaml:"data_b64,omitempty"`
	Children []uint32 `yaml:"children,omitempty,flow"`
}

func formatError(msg string, err error) error {
	return &types.Error{Kind: types.ErrKindFormat, Msg: "batch: " + msg, Err: err}
}

// Decoder reads batches from a document stream.
type Decoder struct {
	json *json.Decoder
	yaml *yaml.Decoder
	n    int
}

// NewDecoder converts r to UTF-8 per opts.Encoding and selects the syntax
// per opts.Format.
func NewDecoder(r io.Reader, opts Options) (*Decoder, error) {
	ur, err := utf8Reader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(ur)

	format := opts.Format
	if format == "" || format == FormatAuto {
		format = formatFromPath(opts.Path)
	}
	if format == FormatAuto {
		format = sniff(br)
	}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(br)
		dec.DisallowUnknownFields()
		return &Decoder{json: dec}, nil
	case FormatYAML:
		dec := yaml.NewDecoder(br)
		dec.KnownFields(true)
		return &Decoder{yaml: dec}, nil
	default:
		return nil, formatError("unsupported format "+string(format), nil)
	}
}

// sniff peeks past leading whitespace: '{' starts JSON, anything else is
// treated as YAML.
func sniff(br *bufio.Reader) Format {
	for i := 1; ; i++ {
		buf, _ := br.Peek(i)
		if len(buf) < i {
			return FormatYAML
		}
		switch buf[i-1] {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return FormatJSON
		default:
			return FormatYAML
		}
	}
}

// Decode returns the next batch, or io.EOF when the stream is exhausted.
func (d *Decoder) Decode() (*axtree.Batch, error) {
	d.n++
	if d.json != nil {
		var doc document
		if err := d.json.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, formatError(fmt.Sprintf("document %d", d.n), err)
		}
		return fromJSON(&doc)
	}

	var doc yamlDocument
	if err := d.yaml.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, formatError(fmt.Sprintf("document %d", d.n), err)
	}
	return fromYAML(&doc)
}

// Decode reads exactly one batch from r.
func Decode(r io.Reader, opts Options) (*axtree.Batch, error) {
	batches, err := DecodeAll(r, opts)
	if err != nil {
		return nil, err
	}
	if len(batches) != 1 {
		return nil, formatError(fmt.Sprintf("expected one document, found %d", len(batches)), nil)
	}
	return batches[0], nil
}

// DecodeAll reads every batch in r.
func DecodeAll(r io.Reader, opts Options) ([]*axtree.Batch, error) {
	dec, err := NewDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	var batches []*axtree.Batch
	for {
		b, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return batches, nil
		}
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
}

func fromJSON(doc *document) (*axtree.Batch, error) {
	b := &axtree.Batch{
		RootID:  types.NodeID(doc.Root),
		Records: make([]axtree.Record, 0, len(doc.Nodes)),
	}
	for i := range doc.Nodes {
		rec := &doc.Nodes[i]
		var data []byte
		if len(rec.Data) > 0 && !bytes.Equal(rec.Data, jsonNull) {
			var buf bytes.Buffer
			if err := json.Compact(&buf, rec.Data); err != nil {
				return nil, formatError(fmt.Sprintf("record %s data", types.NodeID(rec.ID)), err)
			}
			data = buf.Bytes()
		}
		r, err := newRecord(rec.ID, data, rec.DataB64, rec.Children)
		if err != nil {
			return nil, err
		}
		b.Records = append(b.Records, r)
	}
	return b, nil
}

func fromYAML(doc *yamlDocument) (*axtree.Batch, error) {
	b := &axtree.Batch{
		RootID:  types.NodeID(doc.Root),
		Records: make([]axtree.Record, 0, len(doc.Nodes)),
	}
	for i := range doc.Nodes {
		rec := &doc.Nodes[i]
		var data []byte
		if rec.Data != nil {
			var err error
			data, err = marshalJSON(jsonValue(rec.Data))
			if err != nil {
				return nil, formatError(fmt.Sprintf("record %s data", types.NodeID(rec.ID)), err)
			}
		}
		r, err := newRecord(rec.ID, data, rec.DataB64, rec.Children)
		if err != nil {
			return nil, err
		}
		b.Records = append(b.Records, r)
	}
	return b, nil
}

func newRecord(id uint32, data []byte, b64 string, children []uint32) (axtree.Record, error) {
	nid := types.NodeID(id)
	if b64 != "" {
		if data != nil {
			return axtree.Record{}, formatError(fmt.Sprintf("record %s has both data and data_b64", nid), nil)
		}
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return axtree.Record{}, formatError(fmt.Sprintf("record %s data_b64", nid), err)
		}
		data = decoded
	}
	rec := axtree.Record{ID: nid, Data: data}
	if len(children) > 0 {
		rec.Children = make([]types.NodeID, len(children))
		for i, c := range children {
			rec.Children[i] = types.NodeID(c)
		}
	}
	return rec, nil
}

var jsonNull = []byte("null")

// jsonValue rewrites YAML maps with non-string keys so encoding/json can
// marshal them.
func jsonValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = jsonValue(e)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = jsonValue(e)
		}
		return m
	case []any:
		for i, e := range v {
			v[i] = jsonValue(e)
		}
		return v
	default:
		return v
	}
}

// marshalJSON is json.Marshal without HTML escaping or the trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
