package batch

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8Reader converts r from enc to UTF-8.
func utf8Reader(r io.Reader, enc Encoding) (io.Reader, error) {
	var dec *encoding.Decoder
	switch enc {
	case "", EncodingUTF8:
		dec = unicode.UTF8.NewDecoder()
		return transform.NewReader(r, unicode.BOMOverride(dec)), nil
	case EncodingUTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case EncodingWindows1252:
		dec = charmap.Windows1252.NewDecoder()
	default:
		return nil, formatError("unsupported encoding "+string(enc), nil)
	}
	return transform.NewReader(r, dec), nil
}
