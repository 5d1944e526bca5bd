package batch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the document syntax.
type Format string

const (
	// FormatAuto picks JSON or YAML from Options.Path's extension, falling
	// back to the first non-space byte of the input ('{' means JSON).
	FormatAuto Format = "auto"
	// FormatJSON is a stream of JSON documents.
	FormatJSON Format = "json"
	// FormatYAML is a stream of YAML documents separated by "---".
	FormatYAML Format = "yaml"
)

// Encoding selects the character set of the input.
type Encoding string

const (
	// EncodingUTF8 is UTF-8. A byte order mark switches decoding to UTF-16
	// (either endianness) or is stripped.
	EncodingUTF8 Encoding = "utf-8"
	// EncodingUTF16LE is little-endian UTF-16.
	EncodingUTF16LE Encoding = "utf-16le"
	// EncodingUTF16BE is big-endian UTF-16.
	EncodingUTF16BE Encoding = "utf-16be"
	// EncodingWindows1252 is the Windows Latin-1 code page.
	EncodingWindows1252 Encoding = "windows-1252"
)

// Options controls decoding and encoding.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// Format of the document stream.
	// Default: FormatAuto
	Format Format

	// Encoding of the input. Output is always UTF-8.
	// Default: EncodingUTF8
	Encoding Encoding

	// Path names the file being read or written; FormatAuto uses its
	// extension.
	// Default: ""
	Path string

	// Indent, when non-empty, pretty-prints JSON output.
	// Default: ""
	Indent string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Format:   FormatAuto,
		Encoding: EncodingUTF8,
	}
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown batch format %q (want auto, json or yaml)", s)
	}
}

// ParseEncoding converts a flag value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(s)); e {
	case "", EncodingUTF8, "utf8":
		return EncodingUTF8, nil
	case EncodingUTF16LE, EncodingUTF16BE, EncodingWindows1252:
		return e, nil
	case "cp1252":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

// formatFromPath maps a file extension to a Format, or FormatAuto when the
// extension says nothing.
func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}
