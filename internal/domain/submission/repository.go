package submission

import "context"

type Repository interface {
	// Create assigns SubmissionID when empty. A protocol collision surfaces as ErrDuplicateProtocol.
	Create(ctx context.Context, s *Submission) error

	// ErrNotFound when no row matches
	GetBySubmissionID(ctx context.Context, submissionID string) (*Submission, error)

	// Same as GetBySubmissionID but row-locked; only meaningful inside a transaction
	GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*Submission, error)

	// Newest first
	ListByNationalID(ctx context.Context, nationalID string) ([]Submission, error)

	Save(ctx context.Context, s *Submission) error
}
