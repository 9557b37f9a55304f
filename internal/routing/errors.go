// internal/routing/errors.go
package routing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoDestination         = errors.New("NO_DESTINATION")
	ErrAllDestinationsFailed = errors.New("ALL_DESTINATIONS_FAILED")
)

// NoDestinationError is returned when no catalog schema accepts the record.
type NoDestinationError struct {
	Fields []string
}

func (e *NoDestinationError) Error() string {
	return fmt.Sprintf("no destination matches record with fields [%s]", strings.Join(e.Fields, ", "))
}

func (e *NoDestinationError) Is(target error) bool {
	return target == ErrNoDestination
}

// Attempt records one failed insert.
type Attempt struct {
	Destination Destination `json:"destination"`
	Table       string      `json:"table"`
	Err         error       `json:"-"`
}

// AllDestinationsFailedError carries every attempted destination in order.
type AllDestinationsFailedError struct {
	Attempts []Attempt
}

func (e *AllDestinationsFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Destination, a.Err))
	}
	return "all destinations failed: " + strings.Join(parts, "; ")
}

func (e *AllDestinationsFailedError) Is(target error) bool {
	return target == ErrAllDestinationsFailed
}

func (e *AllDestinationsFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Destinations lists the attempted destinations in order.
func (e *AllDestinationsFailedError) Destinations() []Destination {
	out := make([]Destination, len(e.Attempts))
	for i, a := range e.Attempts {
		out[i] = a.Destination
	}
	return out
}
