package avlbag

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned for nil items, out of range percentiles,
	// and raised when a node is asked to link to itself.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmpty is returned when a query needs at least one item.
	ErrEmpty = errors.New("bag is empty")
	// ErrFull is returned by Add when every node handle is in use.
	ErrFull = errors.New("bag is full")
	// ErrCorrupt is returned by Validate when the tree breaks one of its invariants.
	ErrCorrupt = errors.New("bag is corrupt")
)
