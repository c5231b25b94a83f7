package apperrors

import "errors"

// Validation errors represent malformed input. A Capital Gains computation is
// only meaningful for a fully correct chronological chain, so these errors
// abort the run rather than skip the offending trade.
var (
	// ErrInvalidTrade indicates that a trade failed structural validation
	// before entering the matching engine.
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrUnknownFormat indicates that no input format recognised the supplied file.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrMalformedInput indicates that a recognised input file could not be parsed.
	ErrMalformedInput = errors.New("malformed input")
)

// Arithmetic errors represent failures inside the decimal substrate.
var (
	// ErrMalformedAmount indicates that a numeric string could not be parsed
	// into a decimal amount.
	ErrMalformedAmount = errors.New("malformed decimal amount")

	// ErrDivisionByZero indicates an attempted division by a zero amount.
	ErrDivisionByZero = errors.New("division by zero")
)

// Bookkeeping errors represent internal-consistency violations during
// matching. They indicate a defect in upstream bookkeeping, never a
// recoverable condition.
var (
	// ErrPoolInsufficient indicates an attempt to remove more quantity from
	// the Section 104 pool than it currently holds.
	ErrPoolInsufficient = errors.New("insufficient quantity in section 104 pool")

	// ErrUnsupportedScenario indicates that a matching branch with no
	// specified behaviour was reached. Failing is deliberate: guessing a
	// result would silently corrupt subsequent pool state.
	ErrUnsupportedScenario = errors.New("unsupported matching scenario")
)
