package safetensors

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// Container layout:
// [8 bytes: header length H (uint64 LE)]
// [H bytes: JSON header]
// [payload: raw tensor bytes]

// MaxHeaderSize bounds the declared header length. Anything larger is
// treated as corruption rather than a real header.
const MaxHeaderSize = 100 * 1024 * 1024

// Parse decodes a safetensors buffer into a Container. The buffer is
// fully resident; tensor bytes are copied out, so the caller may reuse
// data afterwards. All validation failures return a *FormatError and
// the input is presumed corrupt or unsupported.
func Parse(data []byte) (*Container, error) {
	if len(data) < 8 {
		return nil, &FormatError{Field: "header_length", Details: fmt.Sprintf("buffer of %d bytes is too small", len(data))}
	}

	headerLen := binary.LittleEndian.Uint64(data)
	if headerLen > MaxHeaderSize {
		return nil, &FormatError{Field: "header_length", Details: fmt.Sprintf("declared header length %d exceeds limit", headerLen)}
	}
	if uint64(len(data)-8) < headerLen {
		return nil, &FormatError{Field: "header_length", Details: fmt.Sprintf("declared header length %d exceeds buffer", headerLen)}
	}

	h, err := decodeHeader(data[8 : 8+headerLen])
	if err != nil {
		return nil, err
	}
	payload := data[8+headerLen:]

	if err := validateEntries(h); err != nil {
		return nil, err
	}
	if err := validateRanges(h, int64(len(payload))); err != nil {
		return nil, err
	}

	tensors := make(map[string]*tensor.RawTensor, len(h.names))
	for _, name := range h.names {
		entry := h.entries[name]
		dt, _ := entry.DType.DataType()

		raw, err := tensor.NewRaw(tensor.Shape(entry.Shape), dt, tensor.CPU)
		if err != nil {
			return nil, &FormatError{Tensor: name, Field: "shape", Details: err.Error()}
		}
		copy(raw.Data(), payload[entry.DataOffsets[0]:entry.DataOffsets[1]])
		tensors[name] = raw
	}

	return &Container{
		names:    append([]string(nil), h.names...),
		tensors:  tensors,
		metadata: h.metadata,
	}, nil
}

// validateEntries checks each declared tensor in isolation: a
// recognized dtype, non-negative dimensions, and a byte range whose
// width equals element count times element size.
func validateEntries(h *header) error {
	for _, name := range h.names {
		entry := h.entries[name]

		size := entry.DType.Size()
		if size == 0 {
			return &FormatError{Tensor: name, Field: "dtype", Details: fmt.Sprintf("unrecognized dtype %q", string(entry.DType))}
		}

		numElements := int64(1)
		for i, dim := range entry.Shape {
			if dim < 0 {
				return &FormatError{Tensor: name, Field: "shape", Details: fmt.Sprintf("negative dimension %d at index %d", dim, i)}
			}
			if dim > 0 && numElements > math.MaxInt64/int64(dim) {
				return &FormatError{Tensor: name, Field: "shape", Details: fmt.Sprintf("element count of shape %v overflows", entry.Shape)}
			}
			numElements *= int64(dim)
		}

		start, end := entry.DataOffsets[0], entry.DataOffsets[1]
		if start < 0 || end < start {
			return &FormatError{Tensor: name, Field: "data_offsets", Details: fmt.Sprintf("invalid range [%d, %d)", start, end)}
		}
		if numElements > math.MaxInt64/int64(size) {
			return &FormatError{Tensor: name, Field: "shape", Details: fmt.Sprintf("byte size of shape %v overflows", entry.Shape)}
		}
		if want := numElements * int64(size); end-start != want {
			return &FormatError{
				Tensor: name,
				Field:  "data_offsets",
				Details: fmt.Sprintf("range [%d, %d) holds %d bytes, shape %v of %s needs %d",
					start, end, end-start, entry.Shape, string(entry.DType), want),
			}
		}
	}
	return nil
}

// validateRanges checks the byte ranges collectively: no overlap, no
// gap, and exact payload coverage. Containers with reordered but
// otherwise valid ranges are accepted; declaration order is preserved
// independently of payload order.
func validateRanges(h *header, payloadLen int64) error {
	ordered := append([]string(nil), h.names...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := h.entries[ordered[i]].DataOffsets, h.entries[ordered[j]].DataOffsets
		return a[0] < b[0] || (a[0] == b[0] && a[1] < b[1])
	})

	covered := int64(0)
	prev := ""
	for _, name := range ordered {
		start, end := h.entries[name].DataOffsets[0], h.entries[name].DataOffsets[1]
		if start < covered {
			return &FormatError{
				Tensor:  prev,
				Tensor2: name,
				Field:   "data_offsets",
				Details: fmt.Sprintf("range [%d, %d) overlaps bytes already claimed up to %d", start, end, covered),
			}
		}
		if start > covered {
			return &FormatError{
				Tensor:  name,
				Field:   "data_offsets",
				Details: fmt.Sprintf("gap of %d bytes before range [%d, %d)", start-covered, start, end),
			}
		}
		covered = end
		if end > start {
			prev = name
		}
	}

	if covered != payloadLen {
		return &FormatError{
			Field:   "data_offsets",
			Details: fmt.Sprintf("ranges cover %d bytes but payload holds %d", covered, payloadLen),
		}
	}
	return nil
}
