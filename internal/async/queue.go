package async

import (
	"context"
	"time"
)

// Job is one intake document waiting for validation.
type Job struct {
	Path       string
	EnqueuedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
