package submission

import (
	"strings"
	"time"

	"disclosure-intake/pkg/checksum"
	"disclosure-intake/pkg/mask"
	"disclosure-intake/pkg/protocol"
)

const defaultCommentAuthor = "admin"

// New validates a raw form and builds an unverified record with a fresh protocol code.
// Whatever the outcome, the raw card number and CVV are cleared from form before
// New returns, so only the masked card survives in the returned record.
func New(form *RawForm, sessionID string, meta ClientMeta, now time.Time) (*Submission, error) {
	if form == nil {
		return nil, fieldErr(ErrInvalidInput, "form", "")
	}
	defer form.Card.clear()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fieldErr(ErrInvalidInput, "sessionId", "")
	}

	nationalID := checksum.Digits(form.NationalID)
	if nationalID == "" {
		return nil, fieldErr(ErrInvalidInput, "nationalId", "")
	}
	if !checksum.ValidNationalID(nationalID) {
		return nil, fieldErr(ErrInvalidNationalID, "nationalId", mask.NationalID(nationalID))
	}

	category := IssueCategory(strings.TrimSpace(form.IssueCategory))
	if category != "" && !category.Valid() {
		return nil, fieldErr(ErrInvalidInput, "issueCategory", "")
	}

	// stored in canonical form; a date that cannot be parsed could never be verified
	birthDate := strings.TrimSpace(form.BirthDate)
	if birthDate != "" {
		iso, ok := NormalizeBirthDate(birthDate)
		if !ok {
			return nil, fieldErr(ErrInvalidInput, "personalInfo.birthDate", "")
		}
		birthDate = iso
	}

	card, err := newCardInfo(form.Card)
	if err != nil {
		return nil, err
	}

	financial, err := form.Financial.parse()
	if err != nil {
		return nil, err
	}

	submittedAt := form.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = now
	}

	return &Submission{
		SessionID:     sessionID,
		NationalID:    nationalID,
		IssueCategory: category,
		Personal: PersonalInfo{
			FullName:   strings.TrimSpace(form.FullName),
			BirthDate:  birthDate,
			MotherName: strings.TrimSpace(form.MotherName),
			Gender:     strings.TrimSpace(form.Gender),
		},
		Card:         card,
		Address:      trimAddress(form.Address),
		Financial:    financial,
		Verification: newVerification(),
		Status:       StatusNew,
		ProtocolCode: protocol.Generate(now),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		SubmittedAt:  submittedAt.UTC(),
	}, nil
}

func newCardInfo(in CardInput) (CardInfo, error) {
	if !in.present() {
		return CardInfo{}, nil
	}
	out := CardInfo{
		Expiry:     strings.TrimSpace(in.Expiry),
		CVVPresent: strings.TrimSpace(in.CVV) != "",
	}
	if strings.TrimSpace(in.Number) == "" {
		return out, nil
	}
	masked, last4 := mask.CardNumber(in.Number)
	if !checksum.ValidCardNumber(in.Number) {
		return CardInfo{}, fieldErr(ErrInvalidCard, "cardInfo.number", masked)
	}
	out.NumberMasked = masked
	out.Last4 = last4
	return out, nil
}

func trimAddress(a Address) Address {
	return Address{
		ZipCode:      strings.TrimSpace(a.ZipCode),
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Complement:   strings.TrimSpace(a.Complement),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
	}
}

// SubmitVerificationStep runs one step of the two-step challenge against this record.
// Callers must serialize calls per record; see uow.WithinSubmissionTx.
func (s *Submission) SubmitVerificationStep(step StepName, value string, meta ClientMeta, now time.Time) (Outcome, error) {
	if step != StepBirthDate && step != StepMotherName {
		return "", fieldErr(ErrUnknownStep, "step", "")
	}
	// terminal: no further bookkeeping
	if s.Verification.Verified {
		return OutcomeSucceeded, nil
	}

	var (
		out Outcome
		err error
	)
	if step == StepBirthDate {
		out = s.Verification.SubmitBirthDate(s.Personal.BirthDate, value, now)
	} else {
		out, err = s.Verification.SubmitMotherName(s.Personal.MotherName, value, now)
	}
	if err != nil {
		return "", err
	}
	s.Verification.IPAddress = meta.IPAddress
	s.Verification.UserAgent = meta.UserAgent
	return out, nil
}

// SetStatus returns the previous status.
func (s *Submission) SetStatus(status Status) (Status, error) {
	if !status.Valid() {
		return s.Status, fieldErr(ErrInvalidStatus, "status", "")
	}
	prev := s.Status
	s.Status = status
	return prev, nil
}

func (s *Submission) AddComment(text, author string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fieldErr(ErrInvalidInput, "comment", "")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = defaultCommentAuthor
	}
	s.Comments = append(s.Comments, Comment{Text: text, CreatedBy: author, CreatedAt: now.UTC()})
	return nil
}
