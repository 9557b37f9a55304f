// internal/storage/errors.go
package storage

import "errors"

var (
	ErrInvalidIdentifier = errors.New("INVALID_IDENTIFIER")
	ErrInsertFailed      = errors.New("STORAGE_INSERT_FAILED")
)
