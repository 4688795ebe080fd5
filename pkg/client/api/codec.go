package api

import (
	"encoding/json"
	"fmt"
	"io"
)

// Codec is the JSON codec shared by every request. Enums travel as their
// 1-based ordinals and are accepted back as ordinals or names. Unknown
// fields are ignored.
type Codec struct{}

// NewCodec creates the codec
func NewCodec() *Codec {
	return &Codec{}
}

// ContentType is the media type the codec produces
func (c *Codec) ContentType() string {
	return "application/json"
}

// Encode marshals v; a nil v encodes to an empty body
func (c *Codec) Encode(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return data, nil
}

// Decode unmarshals r into v. An empty body leaves v untouched.
func (c *Codec) Decode(r io.Reader, v interface{}) error {
	if v == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}
	err := json.NewDecoder(r).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
