package pattern

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding determines how the code points of charsets are translated into
// the bytes an automaton consumes.
type Encoding struct {
	name string
	enc  encoding.Encoding
}

// Pre-defined encodings.
var (
	UTF8    = Encoding{name: "utf-8", enc: unicode.UTF8}
	Latin1  = Encoding{name: "latin-1", enc: charmap.ISO8859_1}
	UTF16BE = Encoding{name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF16LE = Encoding{name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
)

// ErrUnknownEncoding is returned by EncodingByName for unsupported names.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ErrUnencodable flags code points which cannot be represented in an encoding.
var ErrUnencodable = errors.New("code point not representable in encoding")

// EncodingByName looks up one of the pre-defined encodings. Matching is
// case-insensitive; "utf8" and "latin1" are accepted as well.
func EncodingByName(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "latin-1", "latin1", "iso-8859-1":
		return Latin1, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	}
	return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Name returns the canonical name of the encoding.
func (e Encoding) Name() string {
	if e.enc == nil {
		return UTF8.name
	}
	return e.name
}

func (e Encoding) String() string {
	return e.Name()
}

func (e Encoding) encoding() encoding.Encoding {
	if e.enc == nil {
		return UTF8.enc
	}
	return e.enc
}

// Encoder encodes single code points. An encoder is not safe for concurrent use.
type Encoder struct {
	enc *encoding.Encoder
	buf [utf8.UTFMax]byte
}

// NewEncoder creates an encoder for e.
func (e Encoding) NewEncoder() *Encoder {
	return &Encoder{enc: e.encoding().NewEncoder()}
}

// Encode returns the byte sequence for code point c.
func (e *Encoder) Encode(c rune) ([]byte, error) {
	if !utf8.ValidRune(c) {
		return nil, fmt.Errorf("%w: %U", ErrUnencodable, c)
	}
	n := utf8.EncodeRune(e.buf[:], c)
	b, err := e.enc.Bytes(e.buf[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: %U", ErrUnencodable, c)
	}
	return b, nil
}

// Check reports code points of charsets within p which cannot be encoded
// with enc. The error lists the first few offending code points.
func Check(p Pattern, enc Encoding) error {
	encoder := enc.NewEncoder()
	var bad []string
	count := 0
	Walk(p, func(sub Pattern) {
		cs, ok := sub.(Charset)
		if !ok {
			return
		}
		cs.Codes(func(c rune) {
			if _, err := encoder.Encode(c); err != nil {
				if count < 5 {
					bad = append(bad, fmt.Sprintf("%U", c))
				}
				count++
			}
		})
	})
	if count == 0 {
		return nil
	}
	return fmt.Errorf("%w %s: %d code points, e.g. %s", ErrUnencodable, enc.Name(),
		count, strings.Join(bad, " "))
}
