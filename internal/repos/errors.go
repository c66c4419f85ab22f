package repos

import "errors"

// ErrNotFound keeps lookup misses consistent across repos; handlers map it to
// a 404.
var ErrNotFound = errors.New("record not found")
