package submission

import (
	"strings"
	"time"
)

type StepName string

const (
	StepBirthDate  StepName = "birthDate"
	StepMotherName StepName = "motherName"
)

type Method string

const (
	MethodNone     Method = "none"
	MethodTwoStep  Method = "twoStep"
	MethodPassword Method = "password"
	MethodToken    Method = "token"
)

type State string

const (
	StateUnverified        State = "unverified"
	StatePartiallyVerified State = "partiallyVerified"
	StateVerified          State = "verified"
)

type Outcome string

const (
	OutcomeFailed    Outcome = "failed"
	OutcomePartial   Outcome = "partial"
	OutcomeSucceeded Outcome = "succeeded"
)

type StepResult struct {
	Verified  bool      `json:"verified"`
	Timestamp time.Time `json:"timestamp"`
}

// Verification is the two-step challenge state embedded in a Submission.
// Attempts only ever grows; once Verified is set nothing changes.
type Verification struct {
	Verified   bool                    `gorm:"column:verified;not null;default:false"`
	Method     Method                  `gorm:"column:method;size:16;not null;default:'none'"`
	VerifiedAt *time.Time              `gorm:"column:verified_at"`
	Steps      map[StepName]StepResult `gorm:"column:steps;type:text;serializer:json"`
	Attempts   int                     `gorm:"column:attempts;not null;default:0"`
	IPAddress  string                  `gorm:"column:ip_address;size:64"`
	UserAgent  string                  `gorm:"column:user_agent;type:text"`
}

func newVerification() Verification {
	return Verification{Method: MethodNone, Steps: map[StepName]StepResult{}}
}

func (v *Verification) State() State {
	switch {
	case v.Verified:
		return StateVerified
	case v.Steps[StepBirthDate].Verified:
		return StatePartiallyVerified
	default:
		return StateUnverified
	}
}

func (v *Verification) record(step StepName, ok bool, now time.Time) {
	if v.Steps == nil {
		v.Steps = map[StepName]StepResult{}
	}
	v.Steps[step] = StepResult{Verified: ok, Timestamp: now}
	if !ok {
		v.Attempts++
	}
}

// SubmitBirthDate compares given against stored after normalizing both to ISO dates.
// A wrong or unparseable date costs an attempt and drops the state back to Unverified.
func (v *Verification) SubmitBirthDate(stored, given string, now time.Time) Outcome {
	if v.Verified {
		return OutcomeSucceeded
	}
	want, okWant := NormalizeBirthDate(stored)
	got, okGot := NormalizeBirthDate(given)
	if !okWant || !okGot || want != got {
		v.record(StepBirthDate, false, now)
		return OutcomeFailed
	}
	v.record(StepBirthDate, true, now)
	return OutcomePartial
}

// SubmitMotherName requires a verified birth date. An empty answer is free;
// a wrong one costs an attempt but keeps the birth-date step.
func (v *Verification) SubmitMotherName(stored, given string, now time.Time) (Outcome, error) {
	if v.Verified {
		return OutcomeSucceeded, nil
	}
	if v.State() != StatePartiallyVerified {
		return "", ErrVerificationOutOfSequence
	}
	if strings.TrimSpace(given) == "" {
		return OutcomePartial, nil
	}
	want := NormalizeName(stored)
	if want == "" || want != NormalizeName(given) {
		v.record(StepMotherName, false, now)
		return OutcomeFailed, nil
	}
	v.record(StepMotherName, true, now)
	v.Verified = true
	v.Method = MethodTwoStep
	at := now
	v.VerifiedAt = &at
	return OutcomeSucceeded, nil
}
