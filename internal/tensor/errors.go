package tensor

import "fmt"

// ShapeError reports an operation applied to a tensor whose rank or
// dimensions do not satisfy the operation's contract.
type ShapeError struct {
	Op      string // Operation name (e.g., "Trilu")
	Shape   Shape  // Offending input shape
	Details string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape %v: %s", e.Op, e.Shape, e.Details)
}
