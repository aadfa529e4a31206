package submission

import (
	"time"

	"disclosure-intake/pkg/mask"
)

// DisplayRecord is the only shape of a submission that leaves the engine.
// It has no field able to carry a raw national ID, card number or CVV, and the
// verification answers (birth date, mother's name) are not part of it at all.
type DisplayRecord struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"sessionId"`
	NationalID    string              `json:"nationalId"`
	IssueCategory IssueCategory       `json:"issueCategory,omitempty"`
	PersonalInfo  DisplayPersonalInfo `json:"personalInfo"`
	CardInfo      DisplayCardInfo     `json:"cardInfo"`
	Address       Address             `json:"address"`
	FinancialInfo FinancialInfo       `json:"financialInfo"`
	Verification  DisplayVerification `json:"verification"`
	Status        Status              `json:"status"`
	ProtocolCode  string              `json:"protocolCode"`
	Comments      []Comment           `json:"comments,omitempty"`
	SubmittedAt   time.Time           `json:"submittedAt"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type DisplayPersonalInfo struct {
	FullName string `json:"fullName,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

type DisplayCardInfo struct {
	NumberMasked string `json:"numberMasked,omitempty"`
	Expiry       string `json:"expiry,omitempty"`
	CVV          string `json:"cvv,omitempty"`
	CVVPresent   bool   `json:"cvvPresent"`
}

type DisplayVerification struct {
	Verified   bool                    `json:"verified"`
	Method     Method                  `json:"method"`
	State      State                   `json:"state"`
	Steps      map[StepName]StepResult `json:"steps"`
	Attempts   int                     `json:"attempts"`
	VerifiedAt *time.Time              `json:"verifiedAt,omitempty"`
}

// Sanitize copies s into its display form. s is left untouched.
func Sanitize(s *Submission) DisplayRecord {
	steps := make(map[StepName]StepResult, len(s.Verification.Steps))
	for k, v := range s.Verification.Steps {
		steps[k] = v
	}
	var verifiedAt *time.Time
	if s.Verification.VerifiedAt != nil {
		at := *s.Verification.VerifiedAt
		verifiedAt = &at
	}
	method := s.Verification.Method
	if method == "" {
		method = MethodNone
	}

	card := DisplayCardInfo{
		Expiry:     s.Card.Expiry,
		CVVPresent: s.Card.CVVPresent,
	}
	if s.Card.Last4 != "" {
		card.NumberMasked, _ = mask.CardNumber(s.Card.Last4)
	}
	if s.Card.CVVPresent {
		card.CVV = mask.RedactCVV("")
	}

	return DisplayRecord{
		ID:            s.SubmissionID,
		SessionID:     s.SessionID,
		NationalID:    mask.NationalID(s.NationalID),
		IssueCategory: s.IssueCategory,
		PersonalInfo: DisplayPersonalInfo{
			FullName: s.Personal.FullName,
			Gender:   s.Personal.Gender,
		},
		CardInfo:      card,
		Address:       s.Address,
		FinancialInfo: s.Financial,
		Verification: DisplayVerification{
			Verified:   s.Verification.Verified,
			Method:     method,
			State:      s.Verification.State(),
			Steps:      steps,
			Attempts:   s.Verification.Attempts,
			VerifiedAt: verifiedAt,
		},
		Status:       s.Status,
		ProtocolCode: s.ProtocolCode,
		Comments:     append([]Comment(nil), s.Comments...),
		SubmittedAt:  s.SubmittedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
