package registry

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	ErrDuplicateRegistration = errors.New("duplicate derivative registration")
	ErrRegistrySealed        = errors.New("derivative registry is sealed")
	ErrInvalidKey            = errors.New("invalid derivative registration")
)

// DuplicateRegistrationError reports a second registration under an existing key.
type DuplicateRegistrationError struct {
	Key Key
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateRegistration, e.Key)
}

// Unwrap allows errors.Is(err, ErrDuplicateRegistration).
func (e *DuplicateRegistrationError) Unwrap() error {
	return ErrDuplicateRegistration
}
