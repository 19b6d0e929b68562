package safetensors

import (
	"fmt"
	"os"
)

// Load reads and parses a safetensors file. The whole file is read
// into memory; the format describes resident buffers, not streams.
func Load(path string) (*Container, error) {
	//nolint:gosec // G304: path comes from the caller, expected for artifact loading
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container file: %w", err)
	}
	return Parse(data)
}

// WriteFile serializes a container and writes it to path.
func WriteFile(path string, c *Container) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write container file: %w", err)
	}
	return nil
}
