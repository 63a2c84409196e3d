// Package zon provides a textual data-interchange codec: a denser wire
// form for the JSON value domain that amortises repeated keys and
// column-shaped data across a columnar header plus a run-length/anchor
// row stream.
//
// Example usage:
//
//	doc, err := zon.Encode(v)
//	if err != nil {
//	    // handle error
//	}
//	round, err := zon.Decode(doc)
package zon

import (
	"github.com/zonformat/zon/decoder"
	"github.com/zonformat/zon/encoder"
	"github.com/zonformat/zon/value"
)

// Encode serialises v to ZON wire text.
func Encode(v value.Value, opts ...encoder.Option) (string, error) {
	return encoder.Encode(v, opts...)
}

// Decode parses ZON wire text back into a value.Value.
func Decode(text string, opts ...decoder.Option) (value.Value, error) {
	return decoder.Decode(text, opts...)
}

// Re-export types and options for convenience.
type (
	Value        = value.Value
	Kind         = value.Kind
	EncodeOption = encoder.Option
	DecodeOption = decoder.Option
)

// WithAnchorInterval sets the row interval at which the encoder emits a
// full anchor row. Default 100.
func WithAnchorInterval(k int) encoder.Option { return encoder.WithAnchorInterval(k) }

// WithLenient disables strict-mode decode validation (E001/E002),
// tolerating row/field count mismatches instead of failing. Decode is
// strict by default.
func WithLenient() decoder.Option { return decoder.WithLenient() }
