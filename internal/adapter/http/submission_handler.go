package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"disclosure-intake/internal/domain/submission"
	ucSubmission "disclosure-intake/internal/usecase/submission"

	"github.com/labstack/echo/v4"
)

type SubmissionHandler struct{ uc *ucSubmission.Usecase }

func NewSubmissionHandler(uc *ucSubmission.Usecase) *SubmissionHandler {
	return &SubmissionHandler{uc: uc}
}

// amount accepts either a JSON number or a currency string such as "R$ 1.234,56".
type amount submission.Amount

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(submission.TextAmount(s))
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = amount{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amount(submission.NumberAmount(n.String()))
	return nil
}

type createSubmissionReq struct {
	SessionID     string `json:"sessionId"`
	NationalID    string `json:"nationalId"    validate:"required"`
	IssueCategory string `json:"issueCategory" validate:"omitempty,oneof=limit bugs increaseLimit loan other"`
	PersonalInfo  struct {
		FullName   string `json:"fullName"   validate:"max=255"`
		BirthDate  string `json:"birthDate"  validate:"omitempty,birthdate"`
		MotherName string `json:"motherName" validate:"max=255"`
		Gender     string `json:"gender"     validate:"max=32"`
	} `json:"personalInfo"`
	CardInfo struct {
		Number string `json:"number"`
		Expiry string `json:"expiry" validate:"omitempty,cardexpiry"`
		CVV    string `json:"cvv"    validate:"omitempty,numeric,min=3,max=4"`
	} `json:"cardInfo"`
	Address       submission.Address `json:"address"`
	FinancialInfo struct {
		Income       amount `json:"income"`
		CurrentLimit amount `json:"currentLimit"`
		DesiredLimit amount `json:"desiredLimit"`
	} `json:"financialInfo"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

func (r *createSubmissionReq) form() *submission.RawForm {
	f := &submission.RawForm{
		NationalID:    r.NationalID,
		IssueCategory: r.IssueCategory,
		FullName:      r.PersonalInfo.FullName,
		BirthDate:     r.PersonalInfo.BirthDate,
		MotherName:    r.PersonalInfo.MotherName,
		Gender:        r.PersonalInfo.Gender,
		Card: submission.CardInput{
			Number: r.CardInfo.Number,
			Expiry: r.CardInfo.Expiry,
			CVV:    r.CardInfo.CVV,
		},
		Address: r.Address,
		Financial: submission.FinancialInput{
			Income:       submission.Amount(r.FinancialInfo.Income),
			CurrentLimit: submission.Amount(r.FinancialInfo.CurrentLimit),
			DesiredLimit: submission.Amount(r.FinancialInfo.DesiredLimit),
		},
	}
	if r.SubmittedAt != nil {
		f.SubmittedAt = *r.SubmittedAt
	}
	// the form now owns the only copy
	r.CardInfo.Number, r.CardInfo.CVV = "", ""
	return f
}

func (h *SubmissionHandler) Create(c echo.Context) error {
	var req createSubmissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Create(c.Request().Context(), ucSubmission.CreateInput{
		SessionID: sessionID(c, req.SessionID),
		Form:      req.form(),
		Meta:      clientMeta(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type submissionPath struct {
	SubmissionID string `json:"submissionId" validate:"required,hex32"`
}

func (h *SubmissionHandler) bindID(c echo.Context) (string, error) {
	p := submissionPath{SubmissionID: strings.ToLower(strings.TrimSpace(c.Param("submission_id")))}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.SubmissionID, nil
}

func (h *SubmissionHandler) Get(c echo.Context) error {
	id, err := h.bindID(c)
	if err != nil {
		return validationFailed(c, err)
	}
	rec, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

type searchReq struct {
	NationalID string `json:"nationalId" validate:"required"`
}

// ListByNationalID takes the ID in the body so it never reaches access logs.
func (h *SubmissionHandler) ListByNationalID(c echo.Context) error {
	var req searchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	recs, err := h.uc.ListByNationalID(c.Request().Context(), req.NationalID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": recs, "count": len(recs)})
}

type verifyReq struct {
	Step  string `json:"step"  validate:"required"`
	Value string `json:"value" validate:"max=255"`
}

func (h *SubmissionHandler) Verify(c echo.Context) error {
	id, err := h.bindID(c)
	if err != nil {
		return validationFailed(c, err)
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.SubmitVerificationStep(c.Request().Context(), id, ucSubmission.VerifyInput{
		Step:  req.Step,
		Value: req.Value,
		Meta:  clientMeta(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *SubmissionHandler) UpdateStatus(c echo.Context) error {
	id, err := h.bindID(c)
	if err != nil {
		return validationFailed(c, err)
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	rec, err := h.uc.UpdateStatus(c.Request().Context(), id, ucSubmission.UpdateStatusInput{Status: req.Status, Meta: clientMeta(c)})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

type addCommentReq struct {
	Text   string `json:"text"   validate:"required,max=2000"`
	Author string `json:"author" validate:"max=128"`
}

func (h *SubmissionHandler) AddComment(c echo.Context) error {
	id, err := h.bindID(c)
	if err != nil {
		return validationFailed(c, err)
	}
	var req addCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	rec, err := h.uc.AddComment(c.Request().Context(), id, ucSubmission.CommentInput{Text: req.Text, Author: req.Author})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type validateNationalIDReq struct {
	NationalID string `json:"nationalId"`
	SessionID  string `json:"sessionId"`
}

func (h *SubmissionHandler) ValidateNationalID(c echo.Context) error {
	var req validateNationalIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto := h.uc.ValidateNationalID(c.Request().Context(), req.NationalID, sessionID(c, req.SessionID), clientMeta(c))
	return c.JSON(http.StatusOK, dto)
}
