package tensor

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/parallel"
)

// TriangularParams selects the region a triangular extraction keeps.
// Diagonal shifts the boundary relative to the main diagonal: positive
// values move it toward the upper-right, negative toward the lower-left.
// Any integer is valid; a large enough magnitude keeps everything or
// nothing.
type TriangularParams struct {
	Upper    bool
	Diagonal int
}

// Trilu extracts the upper or lower triangular part of each matrix in x.
// The last two dimensions are treated as rows and columns; any leading
// dimensions are independent batches, each transformed identically.
// Element (i, j) is kept when Upper and j-i >= Diagonal, or when !Upper
// and j-i <= Diagonal; all other elements are the dtype's zero value.
// Kept elements are exact copies, so no rounding is introduced.
// The input is never modified. Returns a ShapeError if rank < 2.
func Trilu(x *RawTensor, p TriangularParams) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Trilu: input tensor is nil")
	}
	shape := x.Shape()
	if len(shape) < 2 {
		return nil, &ShapeError{Op: "Trilu", Shape: shape, Details: "rank must be at least 2"}
	}
	result, err := NewRaw(shape, x.dtype, x.device)
	if err != nil {
		return nil, fmt.Errorf("Trilu: %w", err)
	}

	rows := shape[len(shape)-2]
	cols := shape[len(shape)-1]
	batches := 1
	for _, d := range shape[:len(shape)-2] {
		batches *= d
	}

	switch x.dtype {
	case Float32:
		triluMatrices(x.AsFloat32(), result.AsFloat32(), batches, rows, cols, p)
	case Float64:
		triluMatrices(x.AsFloat64(), result.AsFloat64(), batches, rows, cols, p)
	case Int32:
		triluMatrices(x.AsInt32(), result.AsInt32(), batches, rows, cols, p)
	case Int64:
		triluMatrices(x.AsInt64(), result.AsInt64(), batches, rows, cols, p)
	case Uint8:
		triluMatrices(x.AsUint8(), result.AsUint8(), batches, rows, cols, p)
	case Bool:
		triluMatrices(x.AsBool(), result.AsBool(), batches, rows, cols, p)
	case Float16, BFloat16:
		// Copy-or-zero only touches raw bits, so halves share the
		// 16-bit kernel.
		triluMatrices(x.AsUint16(), result.AsUint16(), batches, rows, cols, p)
	default:
		return nil, fmt.Errorf("Trilu: unsupported dtype %v", x.dtype)
	}
	return result, nil
}

// triluElem covers every element representation the kernel can copy,
// including the raw 16-bit carrier for half-precision dtypes.
type triluElem interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool | ~uint16
}

// triluMatrices copies the kept region of every batch matrix into out.
// Out starts zero-filled, so only kept elements are written. Batches
// have no cross dependencies and run in parallel.
func triluMatrices[T triluElem](in, out []T, batches, rows, cols int, p TriangularParams) {
	matrix := rows * cols
	parallel.For(batches, func(b int) {
		base := b * matrix
		for i := 0; i < rows; i++ {
			row := base + i*cols
			lo, hi := keptRange(i, cols, p)
			for j := lo; j < hi; j++ {
				out[row+j] = in[row+j]
			}
		}
	}, parallel.DefaultConfig())
}

// keptRange returns the half-open column range kept in row i. The kept
// region of a row is always contiguous: a suffix for upper extraction,
// a prefix for lower. The diagonal offset is unbounded, so it is
// clamped to the row's effective range before any index arithmetic to
// keep i+d from overflowing.
func keptRange(i, cols int, p TriangularParams) (lo, hi int) {
	d := p.Diagonal
	if d > cols {
		d = cols
	}
	if d < -(i + 1) {
		d = -(i + 1)
	}

	if p.Upper {
		lo = i + d
		if lo < 0 {
			lo = 0
		}
		if lo > cols {
			lo = cols
		}
		return lo, cols
	}
	hi = i + d + 1
	if hi < 0 {
		hi = 0
	}
	if hi > cols {
		hi = cols
	}
	return 0, hi
}
