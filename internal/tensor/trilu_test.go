package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// iota4x4 is a 4x4 matrix with row-major values 1..16.
func iota4x4(t *testing.T) *RawTensor {
	t.Helper()
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i + 1)
	}
	x, err := FromSlice(data, Shape{4, 4})
	require.NoError(t, err)
	return x
}

func TestTrilu_UpperDiagonalOne(t *testing.T) {
	x := iota4x4(t)

	out, err := Trilu(x, TriangularParams{Upper: true, Diagonal: 1})
	require.NoError(t, err)

	expected := []float32{
		0, 2, 3, 4,
		0, 0, 7, 8,
		0, 0, 0, 12,
		0, 0, 0, 0,
	}
	assert.Equal(t, expected, out.AsFloat32())
	assert.Equal(t, Shape{4, 4}, out.Shape())
	assert.Equal(t, Float32, out.DType())
}

func TestTrilu_UpperMainDiagonal(t *testing.T) {
	x := iota4x4(t)

	out, err := Trilu(x, TriangularParams{Upper: true, Diagonal: 0})
	require.NoError(t, err)

	in := x.AsFloat32()
	res := out.AsFloat32()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if j < i {
				assert.Zero(t, res[i*4+j], "element (%d,%d) should be zeroed", i, j)
			} else {
				assert.Equal(t, in[i*4+j], res[i*4+j], "element (%d,%d) should be kept", i, j)
			}
		}
	}
}

func TestTrilu_InputUnchanged(t *testing.T) {
	x := iota4x4(t)
	before := append([]float32(nil), x.AsFloat32()...)

	_, err := Trilu(x, TriangularParams{Upper: false, Diagonal: -2})
	require.NoError(t, err)

	assert.Equal(t, before, x.AsFloat32())
}

// Upper with diagonal k and lower with diagonal k-1 split every matrix
// into two disjoint regions whose union is the whole matrix, so summing
// the two outputs reproduces the input exactly.
func TestTrilu_PartitionProperty(t *testing.T) {
	shapes := []Shape{
		{2, 2},
		{4, 4},
		{3, 5},
		{5, 3},
		{2, 3, 4},
		{2, 2, 3, 3},
	}

	for _, shape := range shapes {
		n := shape.NumElements()
		data := make([]float32, n)
		for i := range data {
			data[i] = float32(i)*0.5 - 7
		}
		x, err := FromSlice(data, shape)
		require.NoError(t, err)

		for k := -6; k <= 6; k++ {
			up, err := Trilu(x, TriangularParams{Upper: true, Diagonal: k})
			require.NoError(t, err)
			low, err := Trilu(x, TriangularParams{Upper: false, Diagonal: k - 1})
			require.NoError(t, err)

			upData := up.AsFloat32()
			lowData := low.AsFloat32()
			for i := range data {
				assert.Equal(t, data[i], upData[i]+lowData[i],
					"shape %v k=%d element %d", shape, k, i)
			}
		}
	}
}

func TestTrilu_DiagonalExtremes(t *testing.T) {
	x := iota4x4(t)
	zeros := make([]float32, 16)

	// Boundary past the last column: nothing kept.
	out, err := Trilu(x, TriangularParams{Upper: true, Diagonal: 4})
	require.NoError(t, err)
	assert.Equal(t, zeros, out.AsFloat32())

	// Boundary below the first row: everything kept.
	out, err = Trilu(x, TriangularParams{Upper: true, Diagonal: -3})
	require.NoError(t, err)
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	// Lower mirror images.
	out, err = Trilu(x, TriangularParams{Upper: false, Diagonal: 3})
	require.NoError(t, err)
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	out, err = Trilu(x, TriangularParams{Upper: false, Diagonal: -4})
	require.NoError(t, err)
	assert.Equal(t, zeros, out.AsFloat32())

	// Far beyond any dimension still behaves.
	out, err = Trilu(x, TriangularParams{Upper: true, Diagonal: 1 << 30})
	require.NoError(t, err)
	assert.Equal(t, zeros, out.AsFloat32())

	// The offset is unbounded: the int extremes must not wrap around
	// when added to a row index.
	out, err = Trilu(x, TriangularParams{Upper: true, Diagonal: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, zeros, out.AsFloat32())

	out, err = Trilu(x, TriangularParams{Upper: true, Diagonal: math.MinInt})
	require.NoError(t, err)
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	out, err = Trilu(x, TriangularParams{Upper: false, Diagonal: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, x.AsFloat32(), out.AsFloat32())

	out, err = Trilu(x, TriangularParams{Upper: false, Diagonal: math.MinInt})
	require.NoError(t, err)
	assert.Equal(t, zeros, out.AsFloat32())
}

func TestTrilu_NonSquare(t *testing.T) {
	data := []float32{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
	}
	x, err := FromSlice(data, Shape{2, 5})
	require.NoError(t, err)

	out, err := Trilu(x, TriangularParams{Upper: false, Diagonal: 1})
	require.NoError(t, err)

	expected := []float32{
		1, 2, 0, 0, 0,
		6, 7, 8, 0, 0,
	}
	assert.Equal(t, expected, out.AsFloat32())
}

func TestTrilu_BatchedMatchesPerMatrix(t *testing.T) {
	data := make([]float32, 3*4*4)
	for i := range data {
		data[i] = float32((i*37)%19) - 9
	}
	batched, err := FromSlice(data, Shape{3, 4, 4})
	require.NoError(t, err)

	params := TriangularParams{Upper: true, Diagonal: -1}
	out, err := Trilu(batched, params)
	require.NoError(t, err)

	for b := 0; b < 3; b++ {
		single, err := FromSlice(data[b*16:(b+1)*16], Shape{4, 4})
		require.NoError(t, err)
		want, err := Trilu(single, params)
		require.NoError(t, err)
		assert.Equal(t, want.AsFloat32(), out.AsFloat32()[b*16:(b+1)*16], "batch %d", b)
	}
}

func TestTrilu_RankTooLow(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3}, Shape{3})
	require.NoError(t, err)

	_, err = Trilu(x, TriangularParams{Upper: true})
	require.Error(t, err)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "Trilu", shapeErr.Op)
	assert.Equal(t, Shape{3}, shapeErr.Shape)
}

func TestTrilu_IntAndBool(t *testing.T) {
	xi, err := FromSlice([]int64{1, 2, 3, 4}, Shape{2, 2})
	require.NoError(t, err)
	out, err := Trilu(xi, TriangularParams{Upper: true, Diagonal: 0})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 0, 4}, out.AsInt64())

	xb, err := FromSlice([]bool{true, true, true, true}, Shape{2, 2})
	require.NoError(t, err)
	outb, err := Trilu(xb, TriangularParams{Upper: false, Diagonal: 0})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, outb.AsBool())
}

func TestTrilu_Float16(t *testing.T) {
	x, err := NewRaw(Shape{2, 2}, Float16, CPU)
	require.NoError(t, err)
	bits := x.AsUint16()
	for i, v := range []float32{1.5, -2, 3.25, 8} {
		bits[i] = float16.Fromfloat32(v).Bits()
	}

	out, err := Trilu(x, TriangularParams{Upper: true, Diagonal: 0})
	require.NoError(t, err)

	res := out.AsUint16()
	assert.Equal(t, bits[0], res[0])
	assert.Equal(t, bits[1], res[1])
	assert.Equal(t, uint16(0), res[2])
	assert.Equal(t, bits[3], res[3])
}

func TestTrilu_NilInput(t *testing.T) {
	_, err := Trilu(nil, TriangularParams{})
	require.Error(t, err)
	var shapeErr *ShapeError
	assert.False(t, errors.As(err, &shapeErr), "nil input is not a shape error")
}
