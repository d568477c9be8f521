package repositories

import "errors"

// ErrNotFound is returned (wrapped) by every repository when no record
// matches the given key. Callers test for it with errors.Is.
var ErrNotFound = errors.New("record not found")
