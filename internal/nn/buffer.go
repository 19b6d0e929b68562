package nn

import (
	"github.com/kiln-ml/kiln/internal/tensor"
)

// BufferModule adds a persistent buffer to its input. It is the
// forward behavior of a module that registered exactly one buffer.
type BufferModule struct {
	name    string
	buffer  *tensor.RawTensor
	backend tensor.Backend
}

// NewBufferModule binds the named buffer from a loaded state.
func NewBufferModule(name string, state *State, backend tensor.Backend) (*BufferModule, error) {
	buffer, ok := state.Buffer(name)
	if !ok {
		return nil, &MissingTensorError{Name: name}
	}
	return &BufferModule{
		name:    name,
		buffer:  buffer,
		backend: backend,
	}, nil
}

// Name returns the declared buffer name.
func (m *BufferModule) Name() string {
	return m.name
}

// Buffer returns the bound buffer tensor.
func (m *BufferModule) Buffer() *tensor.RawTensor {
	return m.buffer
}

// Forward computes buffer + input with standard broadcasting. The
// buffer is pinned non-unique for the call so the backend's inplace
// fast path can never write into it; it is never mutated. Incompatible
// shapes fail with a *ShapeMismatchError; dtypes the backend cannot
// add fail with an *UnsupportedDTypeError instead of reaching the
// backend's panic.
func (m *BufferModule) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	if _, _, err := tensor.BroadcastShapes(m.buffer.Shape(), input.Shape()); err != nil {
		return nil, &ShapeMismatchError{Buffer: m.buffer.Shape(), Input: input.Shape()}
	}
	if m.buffer.DType() != input.DType() || !m.backend.Supports(m.buffer.DType()) {
		return nil, &UnsupportedDTypeError{Buffer: m.buffer.DType(), Input: input.DType()}
	}

	defer m.buffer.ForceNonUnique()()
	return m.backend.Add(m.buffer, input), nil
}
