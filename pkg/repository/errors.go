package repository

import "errors"

// ErrNotFound is returned when a looked-up row or document does not exist.
// Callers map it onto their own error taxonomy.
var ErrNotFound = errors.New("record not found")
