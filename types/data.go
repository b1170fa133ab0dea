package types

import (
	"fmt"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
)

// Data is an opaque, lazily-decoded container: a payload that may
// arrive as raw wire bytes and is only decoded the first time
// something actually needs the value. Wire bytes are protobuf-encoded
// and snappy-compressed, the same compression go-ethereum's devp2p
// transport applies to large broadcast payloads.
type Data[T any] struct {
	once    sync.Once
	decoded T
	raw     []byte
	err     error
}

// FromValue wraps an already-decoded value, skipping the lazy path
// entirely. Used locally, e.g. right after a Primary constructs the
// batch it is about to broadcast.
func FromValue[T any](v T) *Data[T] {
	d := &Data[T]{decoded: v}
	d.once.Do(func() {})
	return d
}

// FromBytes wraps wire bytes that will be decoded lazily on first
// access via Get.
func FromBytes[T any](raw []byte) *Data[T] {
	return &Data[T]{raw: raw}
}

// Encode serializes v into the wire representation FromBytes expects:
// a protobuf encoding of v's wire message, snappy-compressed.
func Encode[T any](v T) ([]byte, error) {
	msg, err := marshalProto(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return snappy.Encode(nil, msg), nil
}

// Get returns the decoded value, decoding from raw wire bytes exactly
// once if the Data was constructed via FromBytes.
func (d *Data[T]) Get() (T, error) {
	d.once.Do(func() {
		if d.raw == nil {
			return
		}
		plain, err := snappy.Decode(nil, d.raw)
		if err != nil {
			d.err = fmt.Errorf("decompress: %w", err)
			return
		}
		v, err := unmarshalProto[T](plain)
		if err != nil {
			d.err = fmt.Errorf("decode: %w", err)
			return
		}
		d.decoded = v
	})
	return d.decoded, d.err
}

// marshalProto converts v to its wire message and protobuf-encodes it.
// Batch and Certificate are the only types ever carried in a Data[T]
// on the wire (BatchPropose and BatchSealed), so the dispatch below is
// a closed set rather than a registry.
func marshalProto(v any) ([]byte, error) {
	switch t := v.(type) {
	case Batch:
		return proto.Marshal(toWireBatch(t))
	case Certificate:
		return proto.Marshal(toWireCertificate(t))
	default:
		return nil, fmt.Errorf("types: no wire message registered for %T", v)
	}
}

func unmarshalProto[T any](raw []byte) (T, error) {
	var zero T
	switch any(zero).(type) {
	case Batch:
		var w wireBatch
		if err := proto.Unmarshal(raw, &w); err != nil {
			return zero, err
		}
		b, err := fromWireBatch(&w)
		if err != nil {
			return zero, err
		}
		return any(b).(T), nil
	case Certificate:
		var w wireCertificate
		if err := proto.Unmarshal(raw, &w); err != nil {
			return zero, err
		}
		c, err := fromWireCertificate(&w)
		if err != nil {
			return zero, err
		}
		return any(c).(T), nil
	default:
		return zero, fmt.Errorf("types: no wire message registered for %T", zero)
	}
}
