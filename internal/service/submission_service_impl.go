package service

import (
	"context"
	"fmt"
	"time"

	"github.com/contactrelay/backend/internal/model"
	"github.com/contactrelay/backend/internal/repository"
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo     repository.SubmissionRepository
	notifier Broadcaster
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService backed by the given repository and notifier.
func NewSubmissionService(repo repository.SubmissionRepository, notifier Broadcaster) SubmissionService {
	return &submissionServiceImpl{repo: repo, notifier: notifier, now: time.Now}
}

// Submit persists before notifying; a storage error means no notification is sent.
func (s *submissionServiceImpl) Submit(ctx context.Context, sub *model.Submission) error {
	sub.Stamp(s.now())
	if err := s.repo.Append(ctx, sub); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	s.notifier.Broadcast(ctx, sub.Text())
	return nil
}

func (s *submissionServiceImpl) List(ctx context.Context) ([]*model.Submission, error) {
	subs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	return subs, nil
}
