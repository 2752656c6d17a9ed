package querycache

import (
	"errors"
	"fmt"
)

// ErrNilFetcher is returned when a cache is built without a fetcher
var ErrNilFetcher = errors.New("fetcher is required")

// RemoteQueryError is returned when the warehouse rejects a query or cannot be
// reached. Nothing is cached for the query when it occurs.
type RemoteQueryError struct {
	Query string
	Err   error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote query failed: %v", e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}

// IsRemoteQueryError reports whether err is, or wraps, a RemoteQueryError
func IsRemoteQueryError(err error) bool {
	var rqe *RemoteQueryError
	return errors.As(err, &rqe)
}
