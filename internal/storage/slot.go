// Package storage holds the durable key-value slots the task list is
// written to, and the adapter that serializes the collection into one slot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrInvalidValue  = errors.New("slot value must be valid JSON")
)

// Slot is a synchronous key-value store. Get reports ok=false when the key
// was never written.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the slot for driver. path is ignored by the memory driver.
func Open(driver, path string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFile:
		return NewFileSlot(path)
	case DriverSQLite:
		return NewSQLiteSlot(path)
	case DriverMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
