package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName is registered under the same name as Connect's built-in JSON
// codec so requests are sent and accepted as application/json.
const codecName = "json"

// jsonCodec marshals the plain Go messages of this package with encoding/json.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON returns the option that installs the codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
