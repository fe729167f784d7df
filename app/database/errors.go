package database

import "errors"

// ErrNoUpdatableFields is returned when a partial update contains no
// recognized columns after allowlisting.
var ErrNoUpdatableFields = errors.New("no valid fields to update")
