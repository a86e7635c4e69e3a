package body

import (
	"fmt"

	"github.com/lambda-feedback/msgbody/body/schema"
)

// Request is a request body that has been read into memory. Decoded
// values are cached, so the text and any structured record are decoded
// at most once. A Request belongs to a single exchange and must not be
// shared between goroutines.
type Request struct {
	raw     []byte
	charset string

	decoded bool
	text    string
	textErr error

	records map[*schema.Schema]any
}

func newRequest(raw []byte, charset string) *Request {
	return &Request{raw: raw, charset: charset}
}

// Bytes returns the raw body. The returned slice must not be modified.
func (b *Request) Bytes() []byte { return b.raw }

// Len returns the size of the raw body in bytes.
func (b *Request) Len() int { return len(b.raw) }

// Charset returns the declared charset, or an empty string if none was declared.
func (b *Request) Charset() string { return b.charset }

// Text returns the body decoded with its declared charset.
func (b *Request) Text() (string, error) {
	if !b.decoded {
		b.text, b.textErr = DecodeText(b.raw, b.charset)
		b.decoded = true
	}

	return b.text, b.textErr
}

// Structured decodes the body of b into a new T using s. Repeated calls
// with the same schema return the same value.
func Structured[T any](b *Request, s *schema.Schema) (*T, error) {
	if cached, ok := b.records[s]; ok {
		if v, ok := cached.(*T); ok {
			return v, nil
		}
		return nil, fmt.Errorf("body already decoded as %T", cached)
	}

	text, err := b.Text()
	if err != nil {
		return nil, err
	}

	v := new(T)
	if err := decodeText(text, s, v); err != nil {
		return nil, err
	}

	if b.records == nil {
		b.records = make(map[*schema.Schema]any)
	}
	b.records[s] = v

	return v, nil
}
