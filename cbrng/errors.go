package cbrng

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfig matches every *UnsupportedConfigError.
	ErrUnsupportedConfig = errors.New("cbrng: unsupported generator configuration")

	// ErrInvalidKey matches every *InvalidKeyError.
	ErrInvalidKey = errors.New("cbrng: invalid key")

	// ErrInvalidDistribution is returned for distribution parameters that
	// are out of range or do not fit the output dtype.
	ErrInvalidDistribution = errors.New("cbrng: invalid distribution")
)

// UnsupportedConfigError reports generator parameters that cannot be
// planned, such as Philox with two 32-bit words.
type UnsupportedConfigError struct {
	Params Params
	Reason string
}

func (e *UnsupportedConfigError) Error() string {
	return fmt.Sprintf("cbrng: unsupported configuration %v: %s", e.Params, e.Reason)
}

// Is makes errors.Is(err, ErrUnsupportedConfig) hold.
func (e *UnsupportedConfigError) Is(target error) bool {
	return target == ErrUnsupportedConfig
}

// InvalidKeyError reports an explicit key with the wrong number of
// 32-bit words.
type InvalidKeyError struct {
	Want int
	Got  int
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("cbrng: explicit key has %d words, expected %d", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrInvalidKey) hold.
func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}
