package pubsubv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype both services are served and called
// with.
const CodecName = "json"

// Codec marshals the pubsub wire types as JSON. The server forces it via
// grpc.ForceServerCodec and the clients via grpc.ForceCodec, so neither
// side depends on content-subtype negotiation.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
