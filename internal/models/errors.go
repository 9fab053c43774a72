package models

import "errors"

// ErrNotFound is returned by the store when a row does not exist.
var ErrNotFound = errors.New("record not found")
