package store

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/fpsync/internal/fms"
)

// Snapshots are msgpack encoded and then zstd compressed; a leg list with
// constraints is mostly repeated field names and compresses well.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// marshalSnapshot encodes s for the snapshot column. A nil snapshot is
// stored as NULL.
func marshalSnapshot(s *fms.FlightPlanSnapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return encoder.EncodeAll(buf.Bytes(), nil), nil
}

func unmarshalSnapshot(data []byte) (*fms.FlightPlanSnapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var s fms.FlightPlanSnapshot
	if err := msgpack.NewDecoder(bytes.NewReader(raw)).Decode(&s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// marshalArgs encodes call arguments. Arguments are strings, ints and
// bools only.
func marshalArgs(args []any) ([]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}
	data, err := msgpack.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal args: %w", err)
	}
	return data, nil
}

// unmarshalArgs decodes call arguments. msgpack picks the smallest integer
// width on encode, so integers are widened back to int.
func unmarshalArgs(data []byte) ([]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	for i, a := range args {
		switch v := a.(type) {
		case int64:
			args[i] = int(v)
		case uint64:
			args[i] = int(v)
		}
	}
	return args, nil
}
