package body

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is assumed when a body does not declare one.
const DefaultCharset = "UTF-8"

var errInvalidSequence = errors.New("invalid byte sequence")

// DecodeText decodes raw using the given charset, UTF-8 if empty.
//
// Decoding is strict: any byte sequence that is invalid in the charset
// fails with an *EncodingError instead of being replaced.
func DecodeText(raw []byte, charset string) (string, error) {
	name := normalizeCharset(charset)

	if name == "" || name == "utf-8" || name == "utf8" {
		if off := invalidUTF8(raw); off >= 0 {
			return "", &EncodingError{Charset: DefaultCharset, Offset: off, Err: errInvalidSequence}
		}
		return string(raw), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", &EncodingError{Charset: charset, Offset: -1, Err: err}
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &EncodingError{Charset: charset, Offset: -1, Err: err}
	}

	// x/text decoders substitute U+FFFD for invalid input; a lossless
	// round trip proves nothing was substituted.
	back, err := enc.NewEncoder().Bytes(text)
	if err != nil || !bytes.Equal(back, raw) {
		return "", &EncodingError{Charset: charset, Offset: -1, Err: errInvalidSequence}
	}

	return string(text), nil
}

func normalizeCharset(charset string) string {
	return strings.ToLower(strings.Trim(charset, " \t\""))
}

// invalidUTF8 returns the offset of the first invalid byte, or -1.
func invalidUTF8(raw []byte) int {
	if utf8.Valid(raw) {
		return -1
	}

	for off := 0; off < len(raw); {
		r, size := utf8.DecodeRune(raw[off:])
		if r == utf8.RuneError && size <= 1 {
			return off
		}
		off += size
	}

	return -1
}
