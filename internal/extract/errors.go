package extract

import "errors"

var (
	// ErrImageDecode is returned when the source image cannot be decoded.
	ErrImageDecode = errors.New("image decode failed")

	// ErrInvalidConfig is returned for a bad colour count or configuration.
	// No work is performed when it is returned.
	ErrInvalidConfig = errors.New("invalid extraction config")
)
