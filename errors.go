package bearimy

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPoints is returned when a curve cannot be built because
	// fewer than [MinControlPoints] control points were supplied.
	ErrInsufficientPoints = errors.New("bearimy: not enough control points to build a curve")

	// ErrTooFewPoints matches every [*TooFewPointsError].
	ErrTooFewPoints = errors.New("bearimy: too few control points")

	// ErrNoSegment is returned by insertion when the polygon has no edges.
	ErrNoSegment = errors.New("bearimy: no segment to insert into")

	ErrIndexOutOfRange = errors.New("bearimy: index out of range")
	ErrEmptyCurve      = errors.New("bearimy: curve has an empty domain")
	ErrOutsideDomain   = errors.New("bearimy: parameter outside curve domain")

	// ErrInvalidSize is returned by [Map.ScaleTo] for targets that are not
	// positive and finite.
	ErrInvalidSize = errors.New("bearimy: size must be positive and finite")

	// ErrDegenerateBounds is returned by [Map.ScaleTo] when the map has no
	// extent along an axis, so no factor can reach the target.
	ErrDegenerateBounds = errors.New("bearimy: bounding box has zero extent")
)

// TooFewPointsError is returned when removing a control point would leave
// fewer than [MinControlPoints]. Count is the number of points the polygon
// had when the removal was refused.
type TooFewPointsError struct {
	Count int
}

func (e *TooFewPointsError) Error() string {
	return fmt.Sprintf("bearimy: cannot remove a control point from a polygon of %d points", e.Count)
}

func (e *TooFewPointsError) Is(target error) bool {
	return target == ErrTooFewPoints
}

func insufficientPoints(n int) error {
	return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, n, MinControlPoints)
}

func indexOutOfRange(kind string, i, n int) error {
	return fmt.Errorf("%w: %s %d of %d", ErrIndexOutOfRange, kind, i, n)
}
