package tensor

// Backend defines the compute operations the importer needs from a
// device backend. Only the CPU implementation exists; the importer
// executes on CPU only.
type Backend interface {
	// Name returns the backend name for diagnostics.
	Name() string

	// Device returns the device this backend computes on.
	Device() Device

	// Supports reports whether the backend can compute on elements of
	// the given dtype. Callers that accept untrusted tensors check it
	// before invoking an operation.
	Supports(dt DataType) bool

	// Element-wise binary operations with NumPy-style broadcasting.
	// They panic on incompatible shapes or unsupported dtypes; callers
	// that accept untrusted shapes validate with BroadcastShapes first.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
}
