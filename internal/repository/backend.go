// Package repository provides whole-value storage backends for the conversation log.
package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotExist is returned by Read when nothing has been written yet.
var ErrNotExist = errors.New("store does not exist")

// Backend holds a single serialized value. Whole-value read and whole-value
// overwrite are the only operations; there is no cross-caller locking.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the backend for driver. path is used by the file driver, dsn by sqlite.
func Open(driver, path, dsn string) (Backend, error) {
	switch driver {
	case DriverFile, "":
		return NewFileBackend(path), nil
	case DriverSQLite:
		return NewSQLiteBackend(dsn)
	case DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
