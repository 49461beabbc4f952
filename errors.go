package merkdb

import "errors"

var (
	// ErrHash is returned when a key or value cannot be digested, i.e.
	// it exceeds the wire-encodable size bound.
	ErrHash = errors.New("merkdb: field rejected by hashing primitive")

	// ErrKeyCollision is returned when two operations of one
	// transaction address the same key.
	ErrKeyCollision = errors.New("merkdb: key collision within transaction")

	// ErrMalformedQuestion is returned by a sender asked for a subtree
	// it does not hold.
	ErrMalformedQuestion = errors.New("merkdb: malformed question")

	// ErrMalformedAnswer is returned by a receiver that detected a
	// topology violation or exceeded its benign-fault budget.
	ErrMalformedAnswer = errors.New("merkdb: malformed answer")

	// ErrBranchUnknown is returned when an exported tree is queried
	// through a stubbed-out branch.
	ErrBranchUnknown = errors.New("merkdb: attempt to operate on an unknown branch")

	// ErrInvalidEncoding is returned when a wire structure fails to
	// decode.
	ErrInvalidEncoding = errors.New("merkdb: invalid encoding")
)
