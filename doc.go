// Package bearimy maintains editable closed-loop maps: the curved boundary of
// an arena that is also the track moving objects follow over time.
//
// # Maps and curves
//
// A [Map] owns a [ControlPolygon], an ordered list of at least two points
// that is implicitly closed, and the [Curve] built from it. The polygon is
// read as the control points of a uniform cubic B-spline and converted, by
// [BuildCurve], into one cubic Bézier segment per control point. Segment i
// is controlled by points i through i+3, with indices wrapping around, so the
// curve is closed and smooth everywhere and does not pass through its control
// points.
//
// The curve's parameter domain is [0, n) for n control points. Segment i
// covers [i, i+1). [Curve.Sample] accepts parameters in [0, n] and maps n
// back to 0. [Curve.Eval] accepts any parameter and wraps it first.
//
// # Editing
//
// All edits go through [Map] and are atomic: either the polygon and the
// curve both change, or neither does. [Map.AddPoint] splits the polygon edge
// nearest to the new point. Markers are auxiliary points that are stored
// with a map and take part in its translation and scaling but do not shape
// the curve.
//
// Pointer editing is served by [Map.InteractableHandle], which returns a
// [Handle] to the control point or marker within a grab radius of the
// pointer.
//
// # Timelines
//
// A [TimelinePosition] moves along a curve's domain at a constant speed,
// wrapping around its end. [Timeline] advances many of them at once.
//
// # Geometry
//
// The package carries the small set of 2D primitives its maps are built
// from: [Point], [Vec2], [Size], [Rect], [Affine], [Line], [QuadBez] and
// [CubicBez].
//
// # Logging
//
// The package is silent by default. Install a logger with [SetLogger] to see
// edits at debug level and sampling failures at warn level.
package bearimy
