package safetensors

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// metadataKey is the reserved header entry that carries free-form
// key/value metadata instead of a tensor description.
const metadataKey = "__metadata__"

// headerEntry is one tensor record in the JSON header.
type headerEntry struct {
	DType       DType    `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end) into the payload
}

// header is the decoded JSON header with tensor declaration order
// preserved. encoding/json maps lose ordering, so the entries are
// decoded token by token.
type header struct {
	names    []string
	entries  map[string]headerEntry
	metadata map[string]string
}

// decodeHeader parses the header JSON, keeping declaration order.
func decodeHeader(raw []byte) (*header, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, &FormatError{Field: "header", Details: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &FormatError{Field: "header", Details: "header is not a JSON object"}
	}

	h := &header{
		entries: make(map[string]headerEntry),
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &FormatError{Field: "header", Details: fmt.Sprintf("invalid JSON: %v", err)}
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, &FormatError{Field: "header", Details: "non-string key in header object"}
		}

		if name == metadataKey {
			if err := dec.Decode(&h.metadata); err != nil {
				return nil, &FormatError{Field: metadataKey, Details: fmt.Sprintf("invalid metadata: %v", err)}
			}
			continue
		}

		if _, dup := h.entries[name]; dup {
			return nil, &FormatError{Tensor: name, Field: "header", Details: "duplicate tensor name"}
		}

		var entry headerEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, &FormatError{Tensor: name, Field: "header", Details: fmt.Sprintf("invalid entry: %v", err)}
		}
		h.names = append(h.names, name)
		h.entries[name] = entry
	}

	if _, err := dec.Token(); err != nil {
		return nil, &FormatError{Field: "header", Details: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return h, nil
}
