package submission

import (
	"time"

	domain "disclosure-intake/internal/domain/submission"
)

type CreateInput struct {
	SessionID string
	// Form is consumed: the raw card number and CVV are cleared from it.
	Form *domain.RawForm
	Meta domain.ClientMeta
}

type CreatedDTO struct {
	SubmissionID string        `json:"submissionId"`
	ProtocolCode string        `json:"protocolCode"`
	Status       domain.Status `json:"status"`
	SubmittedAt  time.Time     `json:"submittedAt"`
}

type VerifyInput struct {
	Step  string
	Value string
	Meta  domain.ClientMeta
}

type VerificationDTO struct {
	SubmissionID string          `json:"submissionId"`
	Step         domain.StepName `json:"step"`
	Outcome      domain.Outcome  `json:"outcome"`
	State        domain.State    `json:"state"`
	Verified     bool            `json:"verified"`
	Attempts     int             `json:"attempts"`
	VerifiedAt   *time.Time      `json:"verifiedAt,omitempty"`
}

type UpdateStatusInput struct {
	Status string
	Meta   domain.ClientMeta
}

type CommentInput struct {
	Text   string
	Author string
}

type NationalIDCheckDTO struct {
	Valid  bool   `json:"valid"`
	Masked string `json:"masked,omitempty"`
}
