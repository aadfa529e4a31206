package submission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	analyticsDomain "disclosure-intake/internal/domain/analytics"
	domain "disclosure-intake/internal/domain/submission"
	"disclosure-intake/internal/domain/uow"
	"disclosure-intake/internal/platform/metrics"
	"disclosure-intake/pkg/checksum"
	"disclosure-intake/pkg/mask"
	"disclosure-intake/pkg/protocol"
)

const maxProtocolAttempts = 3

// Emitter records server-side analytics events. Implementations must not fail the caller.
type Emitter interface {
	Emit(ctx context.Context, eventType, sessionID string, meta domain.ClientMeta, data map[string]any)
}

type Usecase struct {
	repo    domain.Repository
	uow     uow.UnitOfWork
	events  Emitter
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewUsecase: events and m may be nil.
func NewUsecase(r domain.Repository, tx uow.UnitOfWork, events Emitter, m *metrics.Metrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: r, uow: tx, events: events, metrics: m, log: log, now: time.Now}
}

func (u *Usecase) emit(ctx context.Context, eventType, sessionID string, meta domain.ClientMeta, data map[string]any) {
	if u.events == nil {
		return
	}
	u.events.Emit(ctx, eventType, sessionID, meta, data)
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*CreatedDTO, error) {
	s, err := domain.New(in.Form, in.SessionID, in.Meta, u.now())
	if err != nil {
		u.metrics.IncrementSubmissions("rejected")
		u.emit(ctx, analyticsDomain.EventFormSubmissionError, in.SessionID, in.Meta, errorData(err))
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = u.repo.Create(ctx, s)
		if !errors.Is(err, domain.ErrDuplicateProtocol) || attempt == maxProtocolAttempts {
			break
		}
		u.log.WarnContext(ctx, "protocol collision, regenerating", "attempt", attempt)
		s.ID = 0
		s.ProtocolCode = protocol.Generate(u.now())
	}
	if err != nil {
		u.metrics.IncrementSubmissions("failed")
		u.emit(ctx, analyticsDomain.EventFormSubmissionError, s.SessionID, in.Meta, errorData(err))
		return nil, err
	}

	u.metrics.IncrementSubmissions("created")
	u.log.InfoContext(ctx, "submission created",
		"submission_id", s.SubmissionID,
		"protocol", s.ProtocolCode,
		"national_id", mask.NationalID(s.NationalID),
	)
	u.emit(ctx, analyticsDomain.EventFormSubmissionSuccess, s.SessionID, in.Meta, map[string]any{
		"submissionId":  s.SubmissionID,
		"protocol":      s.ProtocolCode,
		"issueCategory": string(s.IssueCategory),
	})

	return &CreatedDTO{
		SubmissionID: s.SubmissionID,
		ProtocolCode: s.ProtocolCode,
		Status:       s.Status,
		SubmittedAt:  s.SubmittedAt,
	}, nil
}

// errorData never carries the rejected value, only where the failure was.
func errorData(err error) map[string]any {
	data := map[string]any{"error": "internal"}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		data["error"] = fe.Err.Error()
		data["field"] = fe.Field
	}
	return data
}

func (u *Usecase) Get(ctx context.Context, submissionID string) (*domain.DisplayRecord, error) {
	s, err := u.repo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	rec := domain.Sanitize(s)
	return &rec, nil
}

// ListByNationalID returns every submission for the ID, newest first.
func (u *Usecase) ListByNationalID(ctx context.Context, raw string) ([]domain.DisplayRecord, error) {
	nationalID := checksum.Digits(raw)
	if !checksum.ValidNationalID(nationalID) {
		return nil, &domain.FieldError{Err: domain.ErrInvalidNationalID, Field: "nationalId", Value: mask.NationalID(nationalID)}
	}
	rows, err := u.repo.ListByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DisplayRecord, 0, len(rows))
	for i := range rows {
		out = append(out, domain.Sanitize(&rows[i]))
	}
	return out, nil
}

// SubmitVerificationStep applies one challenge step under the record's row lock
// and persists the result in the same transaction.
func (u *Usecase) SubmitVerificationStep(ctx context.Context, submissionID string, in VerifyInput) (*VerificationDTO, error) {
	step := domain.StepName(in.Step)
	var (
		dto       *VerificationDTO
		sessionID string
	)

	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		sessionID = s.SessionID
		alreadyVerified := s.Verification.Verified

		out, err := s.SubmitVerificationStep(step, in.Value, in.Meta, u.now().UTC())
		if err != nil {
			return err
		}
		if !alreadyVerified {
			if err := r.Submissions.Save(ctx, s); err != nil {
				return err
			}
		}

		v := s.Verification
		dto = &VerificationDTO{
			SubmissionID: s.SubmissionID,
			Step:         step,
			Outcome:      out,
			State:        v.State(),
			Verified:     v.Verified,
			Attempts:     v.Attempts,
			VerifiedAt:   v.VerifiedAt,
		}
		return nil
	})
	if err != nil {
		u.metrics.IncrementVerificationAttempts(string(step), "rejected")
		u.log.WarnContext(ctx, "verification step rejected",
			"submission_id", submissionID,
			"step", in.Step,
			"value_hash", mask.HashSecret(in.Value),
			"err", err,
		)
		return nil, err
	}

	u.metrics.IncrementVerificationAttempts(string(step), string(dto.Outcome))
	u.log.InfoContext(ctx, "verification attempt",
		"submission_id", submissionID,
		"step", step,
		"outcome", dto.Outcome,
		"attempts", dto.Attempts,
		"value_hash", mask.HashSecret(in.Value),
		"ip", in.Meta.IPAddress,
	)
	u.emit(ctx, analyticsDomain.EventVerificationAttempt, sessionID, in.Meta, map[string]any{
		"submissionId": submissionID,
		"step":         string(step),
		"outcome":      string(dto.Outcome),
		"attempts":     dto.Attempts,
	})
	return dto, nil
}

func (u *Usecase) UpdateStatus(ctx context.Context, submissionID string, in UpdateStatusInput) (*domain.DisplayRecord, error) {
	var (
		rec        domain.DisplayRecord
		prev, next domain.Status
		sessionID  string
	)
	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		var err error
		if prev, err = s.SetStatus(domain.Status(in.Status)); err != nil {
			return err
		}
		if err := r.Submissions.Save(ctx, s); err != nil {
			return err
		}
		next, sessionID = s.Status, s.SessionID
		rec = domain.Sanitize(s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "submission status updated", "submission_id", submissionID, "from", prev, "to", next)
	u.emit(ctx, analyticsDomain.EventSubmissionStatusUpdate, sessionID, in.Meta, map[string]any{
		"submissionId":   submissionID,
		"previousStatus": string(prev),
		"newStatus":      string(next),
	})
	return &rec, nil
}

func (u *Usecase) AddComment(ctx context.Context, submissionID string, in CommentInput) (*domain.DisplayRecord, error) {
	var rec domain.DisplayRecord
	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		if err := s.AddComment(in.Text, in.Author, u.now()); err != nil {
			return err
		}
		if err := r.Submissions.Save(ctx, s); err != nil {
			return err
		}
		rec = domain.Sanitize(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ValidateNationalID is the standalone checksum check used while the user types.
func (u *Usecase) ValidateNationalID(ctx context.Context, raw, sessionID string, meta domain.ClientMeta) NationalIDCheckDTO {
	digits := checksum.Digits(raw)
	valid := checksum.ValidNationalID(digits)
	data := map[string]any{"valid": valid, "length": len(digits)}

	// incomplete input has no masked form; only the length is tracked
	var masked string
	if len(digits) == 11 {
		masked = mask.NationalID(digits)
		data["masked"] = masked
	}

	u.metrics.IncrementNationalIDValidations(valid)
	u.emit(ctx, analyticsDomain.EventNationalIDValidation, sessionID, meta, data)
	return NationalIDCheckDTO{Valid: valid, Masked: masked}
}
