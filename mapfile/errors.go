package mapfile

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a map file could not be loaded.
type ErrorKind int

const (
	// Malformed means the text is not valid TOML.
	Malformed ErrorKind = iota + 1
	// TypeMismatch means the TOML is valid but does not fit the schema:
	// unknown keys, wrongly shaped values or an unsupported version.
	TypeMismatch
	// UnresolvedAsset means the background image could not be resolved.
	UnresolvedAsset
	// Geometry means the decoded points cannot form a map.
	Geometry
)

var (
	ErrMalformed       = errors.New("mapfile: malformed document")
	ErrTypeMismatch    = errors.New("mapfile: document does not match schema")
	ErrUnresolvedAsset = errors.New("mapfile: unresolved asset")
	ErrGeometry        = errors.New("mapfile: invalid geometry")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case Malformed:
		return ErrMalformed
	case TypeMismatch:
		return ErrTypeMismatch
	case UnresolvedAsset:
		return ErrUnresolvedAsset
	case Geometry:
		return ErrGeometry
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case TypeMismatch:
		return "type mismatch"
	case UnresolvedAsset:
		return "unresolved asset"
	case Geometry:
		return "geometry"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError is returned by [Load] for every failure. It matches the sentinel
// of its kind with errors.Is, and unwraps to the underlying cause.
type LoadError struct {
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("mapfile: %s: %s", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func loadError(kind ErrorKind, err error) *LoadError {
	return &LoadError{Kind: kind, Err: err}
}
