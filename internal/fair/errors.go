package fair

import "errors"

var (
	// ErrInvalidRange indicates a sample or generator range of zero or less.
	ErrInvalidRange = errors.New("fair: range must be positive")

	// ErrInvalidModulus indicates a combine modulus of zero or less.
	ErrInvalidModulus = errors.New("fair: modulus must be positive")

	// ErrAlreadyGenerated indicates Generate was called twice on one generator.
	// Each commit/reveal round needs a fresh generator and a fresh key.
	ErrAlreadyGenerated = errors.New("fair: value already generated for this key")
)
