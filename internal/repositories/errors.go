package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a lookup, update or
// delete targets an ID that has no row. Handlers translate it to 404.
var ErrNotFound = errors.New("record not found")
