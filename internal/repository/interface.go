package repository

import (
	"context"

	"github.com/contactrelay/backend/internal/model"
)

// SubmissionRepository is the persistence contract for contact submissions.
// Records are append-only: there is no update or delete.
type SubmissionRepository interface {
	// Load returns every stored submission in arrival order.
	// A store that does not exist yet yields an empty slice.
	Load(ctx context.Context) ([]*model.Submission, error)

	// Append persists sub after all existing records.
	Append(ctx context.Context, sub *model.Submission) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
