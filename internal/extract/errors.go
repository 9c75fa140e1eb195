package extract

import "errors"

var (
	// ErrUnresolvedReference indicates an extracted node whose captured hash has
	// no registered resource. It means the phases ran out of order.
	ErrUnresolvedReference = errors.New("unresolved component reference")

	// ErrComponentCycle indicates components that nest each other.
	ErrComponentCycle = errors.New("component dependency cycle")

	// ErrNilDocument indicates Run was called without input.
	ErrNilDocument = errors.New("nil document")
)
