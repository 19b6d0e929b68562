package safetensors

import "fmt"

// FormatError reports a malformed container: a header that cannot be
// decoded, an unrecognized dtype, or byte ranges that do not tile the
// payload. The parse that produced it cannot be retried; the input is
// corrupt or unsupported.
type FormatError struct {
	Tensor  string // Offending tensor name, when one is known
	Tensor2 string // Second tensor involved (overlap errors)
	Field   string // Offending header field (e.g., "dtype", "data_offsets")
	Details string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	switch {
	case e.Tensor2 != "":
		return fmt.Sprintf("safetensors: tensors %q and %q: %s: %s", e.Tensor, e.Tensor2, e.Field, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("safetensors: tensor %q: %s: %s", e.Tensor, e.Field, e.Details)
	case e.Field != "":
		return fmt.Sprintf("safetensors: %s: %s", e.Field, e.Details)
	default:
		return fmt.Sprintf("safetensors: %s", e.Details)
	}
}
