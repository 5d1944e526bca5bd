package batch

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/axtree/pkg/axtree"
)

// Encode writes batches to w as UTF-8 JSON (one document per batch) or, when
// opts.Format resolves to YAML, as a "---"-separated YAML stream.
//
// A payload is written as "data" when decoding it back yields the same bytes,
// and as "data_b64" otherwise.
func Encode(w io.Writer, opts Options, batches ...*axtree.Batch) error {
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = formatFromPath(opts.Path)
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, b := range batches {
			if err := enc.Encode(toYAML(b)); err != nil {
				return err
			}
		}
		return enc.Close()
	case FormatAuto, FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if opts.Indent != "" {
			enc.SetIndent("", opts.Indent)
		}
		for _, b := range batches {
			if err := enc.Encode(toJSON(b)); err != nil {
				return err
			}
		}
		return nil
	default:
		return formatError("unsupported format "+string(format), nil)
	}
}

func toJSON(b *axtree.Batch) *document {
	doc := &document{Root: uint32(b.RootID), Nodes: make([]record, len(b.Records))}
	for i, r := range b.Records {
		rec := record{ID: uint32(r.ID), Children: childIDs(r)}
		if isJSONPayload(r.Data) {
			rec.Data = json.RawMessage(r.Data)
		} else if len(r.Data) > 0 {
			rec.DataB64 = base64.StdEncoding.EncodeToString(r.Data)
		}
		doc.Nodes[i] = rec
	}
	return doc
}

func toYAML(b *axtree.Batch) *yamlDocument {
	doc := &yamlDocument{Root: uint32(b.RootID), Nodes: make([]yamlRecord, len(b.Records))}
	for i, r := range b.Records {
		rec := yamlRecord{ID: uint32(r.ID), Children: childIDs(r)}
		if v, ok := yamlPayload(r.Data); ok {
			rec.Data = v
		} else if len(r.Data) > 0 {
			rec.DataB64 = base64.StdEncoding.EncodeToString(r.Data)
		}
		doc.Nodes[i] = rec
	}
	return doc
}

func childIDs(r axtree.Record) []uint32 {
	if len(r.Children) == 0 {
		return nil
	}
	out := make([]uint32, len(r.Children))
	for i, c := range r.Children {
		out[i] = uint32(c)
	}
	return out
}

// isJSONPayload reports whether p is already a compact JSON value, which is
// exactly what decoding "data" produces.
func isJSONPayload(p []byte) bool {
	if len(p) == 0 || bytes.Equal(p, jsonNull) || !json.Valid(p) {
		return false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, p); err != nil {
		return false
	}
	return bytes.Equal(buf.Bytes(), p)
}

// yamlPayload returns p as a YAML value when re-encoding that value as JSON
// reproduces p.
func yamlPayload(p []byte) (any, bool) {
	if !isJSONPayload(p) {
		return nil, false
	}
	var v any
	if err := yaml.Unmarshal(p, &v); err != nil || v == nil {
		return nil, false
	}
	back, err := marshalJSON(jsonValue(v))
	if err != nil || !bytes.Equal(back, p) {
		return nil, false
	}
	return v, true
}
