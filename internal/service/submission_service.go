package service

import (
	"context"

	"github.com/contactrelay/backend/internal/model"
)

// SubmissionService defines the business logic for contact form submissions.
type SubmissionService interface {
	// Submit stamps sub with the server time, persists it and then notifies
	// administrators without waiting for delivery.
	Submit(ctx context.Context, sub *model.Submission) error

	// List returns all stored submissions in arrival order.
	List(ctx context.Context) ([]*model.Submission, error)
}

// Broadcaster sends a notification text to every administrator.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string)
}
