package errors

import (
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRemoteUnavailable is returned when the tracker cannot be reached, times out,
	// throttles the request or answers with a server error.
	ErrRemoteUnavailable = New("tracker unavailable")
	// ErrRemoteRejected is returned when the tracker refuses the request.
	ErrRemoteRejected = New("tracker rejected the request")
	// ErrNoTransitionFound is returned when a ticket offers no resolving transition.
	ErrNoTransitionFound = New("no resolve transition found")
	// ErrDailyCapReached is returned when the daily ticket creation cap is exhausted.
	ErrDailyCapReached = New("daily issue creation cap reached")
	// ErrCacheMiss is returned by the metadata cache when no entry is present.
	ErrCacheMiss = New("metadata cache miss")
)

// RemoteError is a tracker failure carrying the http status and the messages
// returned by the tracker. It matches ErrRemoteUnavailable or ErrRemoteRejected
// through errors.Is.
type RemoteError struct {
	StatusCode int
	Messages   []string
	Err        error
}

// Error gives a human-readable description of the error.
func (e *RemoteError) Error() string {
	var b strings.Builder
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "tracker responded %d", e.StatusCode)
	} else {
		b.WriteString("tracker request failed")
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying transport error, if any.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is classifies the error against the remote sentinels.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemoteUnavailable:
		return e.Unavailable()
	case ErrRemoteRejected:
		return !e.Unavailable()
	}
	return false
}

// Unavailable reports whether the failure is transient on the tracker side.
func (e *RemoteError) Unavailable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// ConfigurationErr describes a malformed configuration value that was replaced by its default.
func ConfigurationErr(field, value string) error {
	return New(fmt.Sprintf("malformed %s %q, using default", field, value))
}
