package mysql

import (
	"context"
	"errors"

	submissionDomain "disclosure-intake/internal/domain/submission"
	"disclosure-intake/pkg/id"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *submissionDomain.Submission) error {
	if s.SubmissionID == "" {
		s.SubmissionID = id.New()
	}
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// submission_id is 128 random bits; the protocol index is the one that collides
		return submissionDomain.ErrDuplicateProtocol
	}
	return err
}

func (r *SubmissionRepository) Save(ctx context.Context, s *submissionDomain.Submission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubmissionRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*submissionDomain.Submission, error) {
	var out submissionDomain.Submission
	res := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&out)
	return translate(&out, res.Error)
}

func (r *SubmissionRepository) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*submissionDomain.Submission, error) {
	var out submissionDomain.Submission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("submission_id = ?", submissionID).
		First(&out)
	return translate(&out, res.Error)
}

func (r *SubmissionRepository) ListByNationalID(ctx context.Context, nationalID string) ([]submissionDomain.Submission, error) {
	var out []submissionDomain.Submission
	err := r.db.WithContext(ctx).
		Where("national_id = ?", nationalID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func translate(s *submissionDomain.Submission, err error) (*submissionDomain.Submission, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, submissionDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
