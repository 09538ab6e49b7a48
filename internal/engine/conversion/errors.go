package conversion

import "errors"

var (
	// ErrUnknownGroup is returned for a conversion group that was never defined.
	ErrUnknownGroup = errors.New("unknown conversion group")

	// ErrInvalidConfig is returned by helpers given an incomplete configuration.
	ErrInvalidConfig = errors.New("invalid converter configuration")

	// ErrUnknownPolicy is returned when parsing an unknown upcast policy.
	ErrUnknownPolicy = errors.New("unknown upcast policy")
)
