package payload

import "errors"

// ErrCapacityExceeded is returned by Append when the write would grow the
// buffer past its fixed capacity.
var ErrCapacityExceeded = errors.New("payload: capacity exceeded")
