package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned for calendar dates that do not exist or are out of range.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidCoordinate is returned when lat/lon fall outside valid ranges.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrUnavailable is the kind of every failed weather fetch.
	ErrUnavailable = errors.New("weather data unavailable")
	// ErrNotFound is the kind of every failed place resolution.
	ErrNotFound = errors.New("location not found")
)

// Cause distinguishes why an upstream call failed.
type Cause string

const (
	CauseNone        Cause = ""
	CauseTransport   Cause = "transport"
	CauseRateLimited Cause = "rate_limited"
	CauseUpstream    Cause = "upstream_status"
	CauseCircuitOpen Cause = "circuit_open"
	CauseMalformed   Cause = "malformed_response"
	CauseNoData      Cause = "no_data"
	CauseNoMatch     Cause = "no_match"
)

// Error is a failed fetch or resolve. Kind is ErrUnavailable or ErrNotFound.
type Error struct {
	Kind     error
	Cause    Cause
	Provider string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Cause != CauseNone {
		msg += " (" + string(e.Cause) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unavailable builds a fetch failure.
func Unavailable(provider string, cause Cause, err error) *Error {
	return &Error{Kind: ErrUnavailable, Cause: cause, Provider: provider, Err: err}
}

// NotFound builds a resolve failure.
func NotFound(provider string, cause Cause, err error) *Error {
	return &Error{Kind: ErrNotFound, Cause: cause, Provider: provider, Err: err}
}

// CauseOf returns the cause carried by err, or CauseNone.
func CauseOf(err error) Cause {
	var e *Error
	if errors.As(err, &e) {
		return e.Cause
	}
	return CauseNone
}

// Reason is a short user-facing description of why a day has no data.
func Reason(err error) string {
	switch CauseOf(err) {
	case CauseTransport, CauseCircuitOpen:
		return "weather service unreachable"
	case CauseRateLimited:
		return "weather service rate limited the request"
	case CauseUpstream:
		return "weather service rejected the request"
	case CauseMalformed:
		return "weather service returned an unexpected response"
	case CauseNoData:
		return "no weather data for this day"
	case CauseNoMatch:
		return "no place matched the query"
	}
	if err == nil {
		return ""
	}
	return fmt.Sprintf("no data: %v", err)
}
