// Package ports declares the interfaces adapters implement for the services.
package ports

import (
	"context"
	"io"
	"time"
)

// StatusSource gives read-only access to the status files of a bees work directory.
type StatusSource interface {
	// List returns the names of the status files currently present.
	List(ctx context.Context) ([]string, error)
	// Open opens one status file and reports its modification time.
	Open(ctx context.Context, name string) (io.ReadCloser, time.Time, error)
	Ping(ctx context.Context) error
}
