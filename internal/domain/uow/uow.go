package uow

import (
	"context"

	"disclosure-intake/internal/domain/analytics"
	"disclosure-intake/internal/domain/submission"
)

type Repos struct {
	Submissions submission.Repository
	Events      analytics.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the submission row first, then pass it in; serializes verification per record
	WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r Repos, s *submission.Submission) error) error
}
