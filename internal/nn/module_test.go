package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-ml/kiln/internal/backend/cpu"
	"github.com/kiln-ml/kiln/internal/safetensors"
	"github.com/kiln-ml/kiln/internal/tensor"
)

// containerWith round-trips tensors through the binary layout so the
// loader sees exactly what a parsed artifact provides.
func containerWith(t *testing.T, names []string, tensors map[string]*tensor.RawTensor) *safetensors.Container {
	t.Helper()
	c, err := safetensors.NewContainer(names, tensors)
	require.NoError(t, err)
	data, err := safetensors.Marshal(c)
	require.NoError(t, err)
	parsed, err := safetensors.Parse(data)
	require.NoError(t, err)
	return parsed
}

func TestLoadState_ResolvesDeclaredBuffers(t *testing.T) {
	buf, err := tensor.Ones[float32](tensor.Shape{3, 3})
	require.NoError(t, err)
	extra, err := tensor.Ones[float32](tensor.Shape{2})
	require.NoError(t, err)

	c := containerWith(t, []string{"buffer", "unrelated"}, map[string]*tensor.RawTensor{
		"buffer":    buf,
		"unrelated": extra,
	})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)

	got, ok := state.Buffer("buffer")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{3, 3}, got.Shape())

	// The undeclared tensor is ignored, not bound.
	_, ok = state.Buffer("unrelated")
	assert.False(t, ok)
}

func TestLoadState_MissingBuffer(t *testing.T) {
	b, err := tensor.Ones[float32](tensor.Shape{2})
	require.NoError(t, err)
	c := containerWith(t, []string{"b"}, map[string]*tensor.RawTensor{"b": b})

	_, err = LoadState(ModelDescription{Buffers: []string{"w"}}, c)
	require.Error(t, err)

	var missing *MissingTensorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "w", missing.Name)
}

func TestBufferModule_Forward(t *testing.T) {
	buf, err := tensor.Ones[float32](tensor.Shape{3, 3})
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	input, err := tensor.Ones[float32](tensor.Shape{3, 3})
	require.NoError(t, err)

	out, err := module.Forward(input)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 3}, out.Shape())
	for i, v := range out.AsFloat32() {
		assert.Equal(t, float32(2), v, "element %d", i)
	}
}

func TestBufferModule_BufferNeverMutated(t *testing.T) {
	buf, err := tensor.Ones[float32](tensor.Shape{3, 3})
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		input, err := tensor.Ones[float32](tensor.Shape{3, 3})
		require.NoError(t, err)
		_, err = module.Forward(input)
		require.NoError(t, err)
	}

	for i, v := range module.Buffer().AsFloat32() {
		require.Equal(t, float32(1), v, "buffer element %d changed", i)
	}
}

func TestBufferModule_Broadcast(t *testing.T) {
	buf, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3})
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{1, 3})
	require.NoError(t, err)

	out, err := module.Forward(input)
	require.NoError(t, err)

	want := []float32{11, 22, 33, 14, 25, 36, 17, 28, 39}
	assert.Equal(t, want, out.AsFloat32())
}

func TestBufferModule_ShapeMismatch(t *testing.T) {
	buf, err := tensor.Ones[float32](tensor.Shape{3, 3})
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	input, err := tensor.Ones[float32](tensor.Shape{4, 4})
	require.NoError(t, err)

	_, err = module.Forward(input)
	require.Error(t, err)

	var mismatch *ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, tensor.Shape{3, 3}, mismatch.Buffer)
	assert.Equal(t, tensor.Shape{4, 4}, mismatch.Input)
}

func TestBufferModule_HalfPrecisionBuffer(t *testing.T) {
	// A container may legitimately declare a half-precision buffer,
	// but the backend has no arithmetic for it: Forward must surface
	// a typed error, not reach the backend's panic.
	buf, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float16, tensor.CPU)
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	input, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float16, tensor.CPU)
	require.NoError(t, err)

	_, err = module.Forward(input)
	require.Error(t, err)

	var unsupported *UnsupportedDTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, tensor.Float16, unsupported.Buffer)
	assert.Equal(t, tensor.Float16, unsupported.Input)
}

func TestBufferModule_DTypeMismatch(t *testing.T) {
	buf, err := tensor.Ones[float32](tensor.Shape{2})
	require.NoError(t, err)
	c := containerWith(t, []string{"buffer"}, map[string]*tensor.RawTensor{"buffer": buf})

	state, err := LoadState(ModelDescription{Buffers: []string{"buffer"}}, c)
	require.NoError(t, err)
	module, err := NewBufferModule("buffer", state, cpu.New())
	require.NoError(t, err)

	input, err := tensor.Ones[float64](tensor.Shape{2})
	require.NoError(t, err)

	_, err = module.Forward(input)
	var unsupported *UnsupportedDTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, tensor.Float32, unsupported.Buffer)
	assert.Equal(t, tensor.Float64, unsupported.Input)
}

func TestNewBufferModule_UnknownName(t *testing.T) {
	b, err := tensor.Ones[float32](tensor.Shape{2})
	require.NoError(t, err)
	c := containerWith(t, []string{"b"}, map[string]*tensor.RawTensor{"b": b})

	state, err := LoadState(ModelDescription{Buffers: []string{"b"}}, c)
	require.NoError(t, err)

	_, err = NewBufferModule("w", state, cpu.New())
	var missing *MissingTensorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "w", missing.Name)
}
