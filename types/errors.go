package types

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrWrongOwner = errors.New("wrong owner")

	ErrMalformed = errors.New("malformed data")

	ErrTransport = errors.New("transport failure")

	ErrCancelled = errors.New("cancelled")
)

// Kind classifies err into the short label used in log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrWrongOwner):
		return "wrong_owner"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
