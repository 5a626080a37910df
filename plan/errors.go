package plan

import "errors"

// Sentinel errors returned while recording or binding plans.
var (
	// ErrInvalidDesc is returned for a non-positive dimension or an unknown dtype.
	ErrInvalidDesc = errors.New("plan: invalid array descriptor")

	// ErrShapeMismatch is returned when an operand shape does not fit the operation.
	ErrShapeMismatch = errors.New("plan: shape mismatch")

	// ErrDTypeMismatch is returned when operand dtypes are incompatible.
	ErrDTypeMismatch = errors.New("plan: dtype mismatch")

	// ErrInvalidPerm is returned when a permutation is not a bijection of 0..n-1.
	ErrInvalidPerm = errors.New("plan: invalid permutation")

	// ErrUnknownHandle is returned when an operation references an undeclared buffer.
	ErrUnknownHandle = errors.New("plan: unknown buffer handle")

	// ErrReadBeforeWrite is returned when an operation reads a temporary or
	// output buffer that no earlier operation has written.
	ErrReadBeforeWrite = errors.New("plan: buffer read before it is written")

	// ErrMultipleWriters is returned when a second operation writes a buffer.
	ErrMultipleWriters = errors.New("plan: buffer has more than one writer")

	// ErrReadOnly is returned when an operation writes an input or constant.
	ErrReadOnly = errors.New("plan: buffer is read-only")

	// ErrUnwrittenOutput is returned by Finish when an output is never written.
	ErrUnwrittenOutput = errors.New("plan: output is never written")

	// ErrDuplicateName is returned when two arguments share a name.
	ErrDuplicateName = errors.New("plan: duplicate argument name")

	// ErrMissingArgument is returned when an execution binding lacks an argument.
	ErrMissingArgument = errors.New("plan: missing argument")
)
