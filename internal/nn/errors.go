package nn

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// MissingTensorError reports a declared buffer that the container does
// not provide. Load fails; extra undeclared tensors never do.
type MissingTensorError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingTensorError) Error() string {
	return fmt.Sprintf("missing tensor %q in container", e.Name)
}

// UnsupportedDTypeError reports forward operands the compute backend
// cannot add: a dtype with no native arithmetic (the half-precision
// kinds a container may legitimately declare) or operands of
// differing dtypes.
type UnsupportedDTypeError struct {
	Buffer tensor.DataType
	Input  tensor.DataType
}

// Error implements the error interface.
func (e *UnsupportedDTypeError) Error() string {
	if e.Buffer != e.Input {
		return fmt.Sprintf("buffer dtype %s and input dtype %s do not match", e.Buffer, e.Input)
	}
	return fmt.Sprintf("dtype %s is not supported by the compute backend", e.Buffer)
}

// ShapeMismatchError reports forward operands whose shapes cannot be
// broadcast together.
type ShapeMismatchError struct {
	Buffer tensor.Shape
	Input  tensor.Shape
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("buffer shape %v and input shape %v are not broadcast-compatible", e.Buffer, e.Input)
}
