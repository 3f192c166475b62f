package core

import "fmt"

// NetworkError is a transport-level failure: the exchange never
// completed (timeout, dns, tls, connection reset).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %s", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HttpError is a completed exchange whose status is not 2xx. Whether a
// given status is worth retrying is the caller's call, nothing in this
// package retries.
type HttpError struct {
	URL    string
	Status int
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("http status %d for %s", e.Status, e.URL)
}

var ErrFormNotFound = fmt.Errorf("could not find a login form on the page")

var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

// ErrAmbiguousOutcome means the login response matched neither the
// success nor the bad-credential markers. Not necessarily a bad
// password: the portal may have changed its markup or flow.
var ErrAmbiguousOutcome = fmt.Errorf("unrecognized login outcome")
