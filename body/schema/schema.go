package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// jsonWhitespace is the insignificant whitespace of RFC 8259.
const jsonWhitespace = " \t\r\n"

// rootField is the field gojsonschema reports for the document itself.
const rootField = "(root)"

// Error describes a document that cannot be mapped onto a schema.
type Error struct {
	// Field is the dotted JSON path of the offending field. It is empty
	// when the problem concerns the document as a whole.
	Field string

	Err error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type options struct {
	strict bool
}

// Option configures a Schema.
type Option func(*options)

// Strict makes the schema reject properties it does not declare.
// By default unknown properties are ignored.
func Strict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// Schema is a compiled JSON schema for a structured record. It is
// immutable after construction and safe for concurrent use.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
	integers []string
	strict   bool
}

// New compiles the given JSON schema document.
func New(name string, raw []byte, opts ...Option) (*Schema, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	if o.strict {
		doc["additionalProperties"] = false
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	return &Schema{
		name:     name,
		compiled: compiled,
		integers: integerProperties(doc),
		strict:   o.strict,
	}, nil
}

//go:embed hello-data.json
var helloData []byte

// NewHelloData compiles the schema of the {"username","age"} record.
func NewHelloData(opts ...Option) (*Schema, error) {
	return New("hello-data", helloData, opts...)
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string { return s.name }

// Strict reports whether unknown properties are rejected.
func (s *Schema) Strict() bool { return s.strict }

// Decode parses text as a single JSON document, validates it against the
// schema and stores the result in target. Blank text and a literal null
// leave target untouched.
func (s *Schema) Decode(text string, target any) error {
	if strings.Trim(text, jsonWhitespace) == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &Error{Err: fmt.Errorf("malformed json: %w", err)}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &Error{Err: fmt.Errorf("malformed json: trailing data at offset %d", dec.InputOffset())}
	}

	if doc == nil {
		return nil
	}

	s.coerce(doc)

	if err := s.validate(gojsonschema.NewGoLoader(doc)); err != nil {
		return err
	}

	// the document is valid, so re-encoding it cannot fail
	data, _ := json.Marshal(doc)

	if err := json.Unmarshal(data, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &Error{Field: typeErr.Field, Err: err}
		}
		return &Error{Err: err}
	}

	return nil
}

// Encode serializes v to JSON in field declaration order and validates
// the result against the schema.
func (s *Schema) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, &Error{Err: err}
	}

	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if err := s.validate(gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	return data, nil
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) error {
	res, err := s.compiled.Validate(doc)
	if err != nil {
		return &Error{Err: err}
	}

	if res.Valid() {
		return nil
	}

	first := res.Errors()[0]

	return &Error{
		Field: fieldOf(first),
		Err:   errors.New(first.Description()),
	}
}

// coerce converts integer-valued strings and floats of integer properties
// into JSON integers, so that "20" and 20.0 are accepted for an integer.
func (s *Schema) coerce(doc any) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}

	for _, name := range s.integers {
		switch v := obj[name].(type) {
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				obj[name] = json.Number(strconv.FormatInt(n, 10))
			}
		case json.Number:
			if !strings.ContainsAny(string(v), ".eE") {
				continue
			}
			f, err := v.Float64()
			if err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
				obj[name] = json.Number(strconv.FormatInt(int64(f), 10))
			}
		}
	}
}

func fieldOf(re gojsonschema.ResultError) string {
	field := re.Field()
	if field == rootField {
		field = ""
	}

	// unknown properties are reported against their parent object
	if re.Type() == "additional_property_not_allowed" {
		if prop, ok := re.Details()["property"].(string); ok {
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}

	return field
}

func integerProperties(doc map[string]any) []string {
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}

	var names []string
	for name, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if hasType(prop["type"], "integer") {
			names = append(names, name)
		}
	}

	return names
}

func hasType(t any, want string) bool {
	switch t := t.(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if v == want {
				return true
			}
		}
	}
	return false
}
