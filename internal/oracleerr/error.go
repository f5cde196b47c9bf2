// Package oracleerr defines the typed error taxonomy shared by every
// component of the attestation engine, so an outer HTTP layer (out of
// scope here) can map a Kind to a status code without parsing strings.
package oracleerr

import "fmt"

// Kind classifies an Error for outward reporting.
type Kind string

const (
	NotFound        Kind = "not_found"
	BadEvent        Kind = "bad_event"
	BadEntry        Kind = "bad_entry"
	MinOutcome      Kind = "min_outcome"
	EventMaturity   Kind = "event_maturity"
	DataQueryKind   Kind = "data_query"
	WeatherDataKind Kind = "weather_data"
	PrivateKey      Kind = "private_key"
	MismatchPubkey  Kind = "mismatch_pubkey"
	OutcomeNotFound Kind = "outcome_not_found"
	DatabaseLocked  Kind = "database_locked"
)

// Error is the taxonomy type every exported operation in this module
// returns. It wraps an underlying cause while carrying a stable Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NotFoundf(format string, args ...any) *Error {
	return newf(NotFound, nil, format, args...)
}

func BadEventf(format string, args ...any) *Error {
	return newf(BadEvent, nil, format, args...)
}

func BadEntryf(format string, args ...any) *Error {
	return newf(BadEntry, nil, format, args...)
}

func MinOutcomef(format string, args ...any) *Error {
	return newf(MinOutcome, nil, format, args...)
}

func EventMaturityf(format string, args ...any) *Error {
	return newf(EventMaturity, nil, format, args...)
}

func DataQuery(cause error, format string, args ...any) *Error {
	return newf(DataQueryKind, cause, format, args...)
}

func WeatherData(cause error, format string, args ...any) *Error {
	return newf(WeatherDataKind, cause, format, args...)
}

func PrivateKeyf(cause error, format string, args ...any) *Error {
	return newf(PrivateKey, cause, format, args...)
}

func MismatchPubkeyf(format string, args ...any) *Error {
	return newf(MismatchPubkey, nil, format, args...)
}

func OutcomeNotFoundf(format string, args ...any) *Error {
	return newf(OutcomeNotFound, nil, format, args...)
}

func DatabaseLockedf(cause error, format string, args ...any) *Error {
	return newf(DatabaseLocked, cause, format, args...)
}

// Is lets errors.Is(err, &oracleerr.Error{Kind: oracleerr.NotFound}) style
// checks work against a Kind: any *Error target matches when its Kind equals
// e's Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
