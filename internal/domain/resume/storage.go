package resume

import (
	"context"
	"errors"
)

var (
	ErrTooLarge    = errors.New("resume exceeds maximum size")
	ErrInvalidType = errors.New("resume type is not allowed")
)

// Storage persists uploaded resume files and returns the stored path.
// It returns ErrTooLarge or ErrInvalidType when the content violates the limits.
type Storage interface {
	Store(ctx context.Context, filename string, content []byte, allowedTypes []string, maxSize int64) (string, error)
}

// File is an uploaded resume waiting to be stored.
type File struct {
	Filename string
	Content  []byte
}

func (f File) Size() int64 {
	return int64(len(f.Content))
}
