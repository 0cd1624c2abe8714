package compiler

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// transcode returns raw as UTF-8. Module authors ship both UTF-8 and UTF-16
// files, with or without a byte order mark.
func transcode(raw []byte) ([]byte, error) {
	var policy unicode.BOMPolicy
	var order unicode.Endianness

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return raw[len(bomUTF8):], nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		order, policy = unicode.LittleEndian, unicode.ExpectBOM
	case len(raw) >= 2 && raw[0] == '<' && raw[1] == 0:
		order, policy = unicode.LittleEndian, unicode.IgnoreBOM
	case len(raw) >= 2 && raw[0] == 0 && raw[1] == '<':
		order, policy = unicode.BigEndian, unicode.IgnoreBOM
	default:
		return raw, nil
	}

	out, err := unicode.UTF16(order, policy).NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode UTF-16: %w", err)
	}
	return out, nil
}

// charsetReader serves the encoding named in the XML declaration. UTF-16
// input was already transcoded, so its label is passed through.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "utf-16", "utf16", "utf-16le", "utf-16be", "unicode":
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func decode(raw []byte, v any) error {
	data, err := transcode(raw)
	if err != nil {
		return err
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}
