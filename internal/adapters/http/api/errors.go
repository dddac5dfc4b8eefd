package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

func errMissingField(name string) error {
	return fmt.Errorf("%w: missing %s", ErrBadRequest, name)
}

func errBadField(name, hint string) error {
	return fmt.Errorf("%w: %s %s", ErrBadRequest, name, hint)
}
