package submission

import (
	"time"
)

type IssueCategory string

const (
	IssueLimit         IssueCategory = "limit"
	IssueBugs          IssueCategory = "bugs"
	IssueIncreaseLimit IssueCategory = "increaseLimit"
	IssueLoan          IssueCategory = "loan"
	IssueOther         IssueCategory = "other"
)

func (c IssueCategory) Valid() bool {
	switch c {
	case IssueLimit, IssueBugs, IssueIncreaseLimit, IssueLoan, IssueOther:
		return true
	}
	return false
}

type Status string

const (
	StatusNew       Status = "new"
	StatusInReview  Status = "inReview"
	StatusHandled   Status = "handled"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInReview, StatusHandled, StatusCancelled:
		return true
	}
	return false
}

type PersonalInfo struct {
	FullName string `gorm:"column:full_name;size:255"`
	// BirthDate and MotherName are the verification secrets.
	BirthDate  string `gorm:"column:birth_date;size:32"`
	MotherName string `gorm:"column:mother_name;size:255"`
	Gender     string `gorm:"column:gender;size:32"`
}

// CardInfo never holds the raw card number or CVV.
type CardInfo struct {
	NumberMasked string `gorm:"column:number_masked;size:8"`
	Last4        string `gorm:"column:last4;size:4"`
	Expiry       string `gorm:"column:expiry;size:7"`
	CVVPresent   bool   `gorm:"column:cvv_present;not null;default:false"`
}

type Address struct {
	ZipCode      string `gorm:"column:zip_code;size:16" json:"zipCode,omitempty"`
	Street       string `gorm:"column:street;size:255" json:"street,omitempty"`
	Number       string `gorm:"column:number;size:32" json:"number,omitempty"`
	Complement   string `gorm:"column:complement;size:255" json:"complement,omitempty"`
	Neighborhood string `gorm:"column:neighborhood;size:255" json:"neighborhood,omitempty"`
	City         string `gorm:"column:city;size:255" json:"city,omitempty"`
	State        string `gorm:"column:state;size:64" json:"state,omitempty"`
}

type FinancialInfo struct {
	Income       float64 `gorm:"column:income;type:decimal(18,2)" json:"income"`
	CurrentLimit float64 `gorm:"column:current_limit;type:decimal(18,2)" json:"currentLimit"`
	DesiredLimit float64 `gorm:"column:desired_limit;type:decimal(18,2)" json:"desiredLimit"`
}

type Comment struct {
	Text      string    `json:"text"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submission is the internal record. It must not be serialized to clients;
// use Sanitize to obtain a DisplayRecord.
type Submission struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex), assigned by the repository
	SubmissionID  string        `gorm:"column:submission_id;type:char(32);not null;uniqueIndex:ux_submissions_submission_id" json:"-"`
	SessionID     string        `gorm:"column:session_id;size:128;not null;index:idx_submissions_session_id" json:"-"`
	NationalID    string        `gorm:"column:national_id;type:char(11);not null;index:idx_submissions_national_id" json:"-"`
	IssueCategory IssueCategory `gorm:"column:issue_category;size:32" json:"-"`
	Personal      PersonalInfo  `gorm:"embedded;embeddedPrefix:personal_" json:"-"`
	Card          CardInfo      `gorm:"embedded;embeddedPrefix:card_" json:"-"`
	Address       Address       `gorm:"embedded;embeddedPrefix:address_" json:"-"`
	Financial     FinancialInfo `gorm:"embedded;embeddedPrefix:financial_" json:"-"`
	Verification  Verification  `gorm:"embedded;embeddedPrefix:verification_" json:"-"`
	Comments      []Comment     `gorm:"column:comments;type:text;serializer:json" json:"-"`
	Status        Status        `gorm:"column:status;size:16;not null;default:'new'" json:"-"`
	ProtocolCode  string        `gorm:"column:protocol_code;type:char(10);not null;uniqueIndex:ux_submissions_protocol_code" json:"-"`
	IPAddress     string        `gorm:"column:ip_address;size:64" json:"-"`
	UserAgent     string        `gorm:"column:user_agent;type:text" json:"-"`
	SubmittedAt   time.Time     `gorm:"column:submitted_at" json:"-"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Submission) TableName() string { return "submissions" }
