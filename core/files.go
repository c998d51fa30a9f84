package core

import (
	"context"
	"io"
)

// FileStorage stores uploaded attachments.
type FileStorage interface {
	// Save stores the content of `r` under a collision free name derived from `filename`
	// and returns that stored name.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes a stored file. Removing a missing file is not an error.
	Remove(ctx context.Context, stored string) error
}
