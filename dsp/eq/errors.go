package eq

import (
	"errors"

	"github.com/cwbudde/simpleeq/dsp/core"
)

var (
	// ErrInvalidSampleRate is returned by Prepare for a non-positive or
	// non-finite sample rate.
	ErrInvalidSampleRate = core.ErrInvalidSampleRate

	// ErrInvalidBlockSize is returned by Prepare for a non-positive maximum
	// block size.
	ErrInvalidBlockSize = core.ErrInvalidBlockSize

	// ErrUnknownParameter is returned when a parameter ID is not part of the
	// layout.
	ErrUnknownParameter = errors.New("eq: unknown parameter")

	// ErrInvalidSlope is returned when a slope label or index cannot be parsed.
	ErrInvalidSlope = errors.New("eq: invalid slope")

	// ErrInvalidState is returned when a saved state blob is malformed.
	ErrInvalidState = errors.New("eq: invalid state")

	// ErrUnsupportedStateVersion is returned for state blobs written by a
	// newer format.
	ErrUnsupportedStateVersion = errors.New("eq: unsupported state version")
)
