package database

import "errors"

// ErrNotReady wraps any failure to reach the server within the connection
// timeout.
var ErrNotReady = errors.New("database unreachable")
