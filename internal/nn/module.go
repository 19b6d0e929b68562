// Package nn binds container tensors into model state and provides the
// buffer-bearing forward computation.
//
// A persistent buffer is a named tensor that participates in the
// forward pass but is never a trainable parameter. The source
// framework registers such buffers at module construction time; here
// they are declared explicitly in a ModelDescription and resolved once
// at load time, with no global registry.
package nn

import (
	"github.com/kiln-ml/kiln/internal/safetensors"
	"github.com/kiln-ml/kiln/internal/tensor"
)

// ModelDescription declares the persistent buffers a model expects to
// resolve from a container.
type ModelDescription struct {
	Buffers []string
}

// State holds the buffers resolved from a container, keyed by declared
// name. It is immutable after LoadState.
type State struct {
	buffers map[string]*tensor.RawTensor
}

// LoadState resolves every declared buffer by exact name match.
// Container tensors that no declaration references are ignored; a
// declared buffer absent from the container fails with a
// *MissingTensorError naming it.
func LoadState(desc ModelDescription, c *safetensors.Container) (*State, error) {
	buffers := make(map[string]*tensor.RawTensor, len(desc.Buffers))
	for _, name := range desc.Buffers {
		t, ok := c.Tensor(name)
		if !ok {
			return nil, &MissingTensorError{Name: name}
		}
		buffers[name] = t
	}
	return &State{buffers: buffers}, nil
}

// Buffer looks up a resolved buffer by its declared name.
func (s *State) Buffer(name string) (*tensor.RawTensor, bool) {
	t, ok := s.buffers[name]
	return t, ok
}

// BufferNames returns the declared names resolved in this state.
func (s *State) BufferNames() []string {
	names := make([]string, 0, len(s.buffers))
	for name := range s.buffers {
		names = append(names, name)
	}
	return names
}
