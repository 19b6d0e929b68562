package safetensors

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Marshal serializes a container into the safetensors layout. Tensors
// are laid out in declaration order with contiguous byte ranges, which
// is the canonical assignment Parse round-trips exactly.
func Marshal(c *Container) ([]byte, error) {
	headerJSON, payload, err := encodeParts(c)
	if err != nil {
		return nil, err
	}

	out := bytes.NewBuffer(make([]byte, 0, 8+len(headerJSON)+len(payload)))
	if err := binary.Write(out, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return nil, fmt.Errorf("safetensors: write header length: %w", err)
	}
	out.Write(headerJSON)
	out.Write(payload)
	return out.Bytes(), nil
}

// encodeParts builds the JSON header and the packed payload. The JSON
// object is assembled by hand so its keys keep declaration order;
// encoding/json would sort a map.
func encodeParts(c *Container) (headerJSON, payload []byte, err error) {
	var head bytes.Buffer
	var body bytes.Buffer
	head.WriteByte('{')

	first := true
	writeKey := func(name string) error {
		if !first {
			head.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		head.Write(key)
		head.WriteByte(':')
		return nil
	}

	if len(c.metadata) > 0 {
		if err := writeKey(metadataKey); err != nil {
			return nil, nil, fmt.Errorf("safetensors: encode metadata: %w", err)
		}
		meta, err := json.Marshal(c.metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("safetensors: encode metadata: %w", err)
		}
		head.Write(meta)
	}

	offset := int64(0)
	for _, name := range c.names {
		t := c.tensors[name]
		data := t.Data()

		shape := []int(t.Shape())
		if shape == nil {
			shape = []int{} // scalar: encode as [], not null
		}
		entry := headerEntry{
			DType:       tagOf(t.DType()),
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + int64(len(data))},
		}
		if entry.DType == "" {
			return nil, nil, fmt.Errorf("safetensors: tensor %q: dtype %s has no header tag", name, t.DType())
		}

		if err := writeKey(name); err != nil {
			return nil, nil, fmt.Errorf("safetensors: encode tensor %q: %w", name, err)
		}
		enc, err := json.Marshal(entry)
		if err != nil {
			return nil, nil, fmt.Errorf("safetensors: encode tensor %q: %w", name, err)
		}
		head.Write(enc)

		body.Write(data)
		offset += int64(len(data))
	}

	head.WriteByte('}')
	return head.Bytes(), body.Bytes(), nil
}
