// Package rpc defines the gRPC contracts spoken between the mesh services:
// message types, service descriptors, and typed clients. The mesh is
// internal-only, so messages travel as JSON via a registered codec instead of
// generated protobuf bindings; the wire method names follow the published
// contract (post_server.PostService etc.) so either side can be swapped for a
// protoc-generated implementation without changing call sites.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype carrying JSON-encoded messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }
