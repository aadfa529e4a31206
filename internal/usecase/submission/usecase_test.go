package submission

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	analyticsDomain "disclosure-intake/internal/domain/analytics"
	domain "disclosure-intake/internal/domain/submission"
	"disclosure-intake/internal/domain/uow"
	"disclosure-intake/internal/platform/metrics"
	"disclosure-intake/internal/testutil/analyticsmock"
	"disclosure-intake/internal/testutil/submissionmock"
	"disclosure-intake/internal/testutil/uowmock"
	"disclosure-intake/pkg/mask"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ----- test doubles -----

type emitted struct {
	Type      string
	SessionID string
	Data      map[string]any
}

type fakeEmitter struct{ events []emitted }

func (f *fakeEmitter) Emit(_ context.Context, eventType, sessionID string, _ domain.ClientMeta, data map[string]any) {
	f.events = append(f.events, emitted{Type: eventType, SessionID: sessionID, Data: data})
}

func (f *fakeEmitter) byType(t string) []emitted {
	var out []emitted
	for _, e := range f.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

const (
	validNationalID = "52998224725"
	testSubmission  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newForm() *domain.RawForm {
	return &domain.RawForm{
		NationalID:    "529.982.247-25",
		IssueCategory: "limit",
		FullName:      "Ana Souza",
		BirthDate:     "15/03/1985",
		MotherName:    "Maria José da Silva",
		Card:          domain.CardInput{Number: "4532 0151 1283 0366", Expiry: "12/29", CVV: "123"},
	}
}

func storedSubmission(t *testing.T) *domain.Submission {
	t.Helper()
	s, err := domain.New(newForm(), "sess-1", domain.ClientMeta{}, fixedNow)
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}
	s.ID = 1
	s.SubmissionID = testSubmission
	return s
}

type harness struct {
	uc      *Usecase
	repo    *submissionmock.Repo
	events  *fakeEmitter
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	saves   int
}

// newHarness wires the usecase to a single in-memory row (nil means no rows).
func newHarness(t *testing.T, row *domain.Submission) *harness {
	t.Helper()
	h := &harness{events: &fakeEmitter{}, logs: &bytes.Buffer{}}
	h.repo = &submissionmock.Repo{
		GetBySubmissionIDFn: func(_ context.Context, id string) (*domain.Submission, error) {
			if row == nil || id != row.SubmissionID {
				return nil, domain.ErrNotFound
			}
			return row, nil
		},
		GetBySubmissionIDForUpdateFn: func(_ context.Context, id string) (*domain.Submission, error) {
			if row == nil || id != row.SubmissionID {
				return nil, domain.ErrNotFound
			}
			return row, nil
		},
		SaveFn: func(_ context.Context, s *domain.Submission) error {
			h.saves++
			row = s
			return nil
		},
	}
	h.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	tx := uowmock.Passthrough(uow.Repos{Submissions: h.repo, Events: &analyticsmock.Repo{}})
	h.uc = NewUsecase(h.repo, tx, h.events, h.metrics, slog.New(slog.NewJSONHandler(h.logs, nil)))
	h.uc.now = func() time.Time { return fixedNow }
	return h
}

// ----- Create -----

func TestCreate_Success(t *testing.T) {
	h := newHarness(t, nil)
	h.repo.CreateFn = func(_ context.Context, s *domain.Submission) error {
		s.SubmissionID = testSubmission
		return nil
	}

	form := newForm()
	dto, err := h.uc.Create(context.Background(), CreateInput{SessionID: "sess-1", Form: form})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if dto.SubmissionID != testSubmission {
		t.Fatalf("SubmissionID=%s", dto.SubmissionID)
	}
	if len(dto.ProtocolCode) != 10 {
		t.Fatalf("protocol length: %d", len(dto.ProtocolCode))
	}
	if dto.Status != domain.StatusNew {
		t.Fatalf("status=%s", dto.Status)
	}
	if form.Card.Number != "" || form.Card.CVV != "" {
		t.Fatalf("raw card data left in form: %+v", form.Card)
	}

	ev := h.events.byType(analyticsDomain.EventFormSubmissionSuccess)
	if len(ev) != 1 || ev[0].Data["protocol"] != dto.ProtocolCode || ev[0].SessionID != "sess-1" {
		t.Fatalf("success event mismatch: %+v", ev)
	}
	if got := testutil.ToFloat64(h.metrics.SubmissionsTotal.WithLabelValues("created")); got != 1 {
		t.Fatalf("created counter=%v", got)
	}
	if strings.Contains(h.logs.String(), validNationalID) {
		t.Fatalf("raw national id logged: %s", h.logs.String())
	}
}

func TestCreate_InvalidNationalID(t *testing.T) {
	h := newHarness(t, nil)
	h.repo.CreateFn = func(context.Context, *domain.Submission) error {
		t.Fatalf("Create must not reach the repository on invalid input")
		return nil
	}

	form := newForm()
	form.NationalID = "52998224724"
	_, err := h.uc.Create(context.Background(), CreateInput{SessionID: "sess-1", Form: form})
	if !errors.Is(err, domain.ErrInvalidNationalID) {
		t.Fatalf("want ErrInvalidNationalID, got %v", err)
	}

	ev := h.events.byType(analyticsDomain.EventFormSubmissionError)
	if len(ev) != 1 {
		t.Fatalf("want 1 error event, got %d", len(ev))
	}
	if ev[0].Data["field"] != "nationalId" {
		t.Fatalf("error event field: %+v", ev[0].Data)
	}
	for _, v := range ev[0].Data {
		if s, ok := v.(string); ok && strings.Contains(s, "52998224724") {
			t.Fatalf("error event leaked the raw id: %+v", ev[0].Data)
		}
	}
	if got := testutil.ToFloat64(h.metrics.SubmissionsTotal.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("rejected counter=%v", got)
	}
}

func TestCreate_ProtocolCollisionRetries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		wantErr   error
		wantCalls int
	}{
		{name: "succeeds on third try", failures: 2, wantErr: nil, wantCalls: 3},
		{name: "gives up after three", failures: 10, wantErr: domain.ErrDuplicateProtocol, wantCalls: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			calls := 0
			h.repo.CreateFn = func(_ context.Context, s *domain.Submission) error {
				calls++
				if len(s.ProtocolCode) != 10 {
					t.Fatalf("attempt %d: protocol %q", calls, s.ProtocolCode)
				}
				if calls <= tc.failures {
					return domain.ErrDuplicateProtocol
				}
				s.SubmissionID = testSubmission
				return nil
			}

			_, err := h.uc.Create(context.Background(), CreateInput{SessionID: "sess-1", Form: newForm()})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if calls != tc.wantCalls {
				t.Fatalf("calls=%d want %d", calls, tc.wantCalls)
			}
		})
	}
}

func TestCreate_RepoErrorPropagates(t *testing.T) {
	h := newHarness(t, nil)
	boom := errors.New("db down")
	h.repo.CreateFn = func(context.Context, *domain.Submission) error { return boom }

	if _, err := h.uc.Create(context.Background(), CreateInput{SessionID: "sess-1", Form: newForm()}); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
	if ev := h.events.byType(analyticsDomain.EventFormSubmissionError); len(ev) != 1 || ev[0].Data["error"] != "internal" {
		t.Fatalf("error event mismatch: %+v", ev)
	}
}

// ----- reads -----

func TestGet(t *testing.T) {
	h := newHarness(t, storedSubmission(t))

	rec, err := h.uc.Get(context.Background(), testSubmission)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.NationalID != "529*****25" {
		t.Fatalf("national id not masked: %s", rec.NationalID)
	}
	if rec.CardInfo.NumberMasked != "****0366" || rec.CardInfo.CVV != mask.CVVPlaceholder {
		t.Fatalf("card not masked: %+v", rec.CardInfo)
	}

	if _, err := h.uc.Get(context.Background(), "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListByNationalID(t *testing.T) {
	h := newHarness(t, nil)
	h.repo.ListByNationalIDFn = func(_ context.Context, nationalID string) ([]domain.Submission, error) {
		if nationalID != validNationalID {
			t.Fatalf("repo got unclean id %q", nationalID)
		}
		return []domain.Submission{*storedSubmission(t), *storedSubmission(t)}, nil
	}

	recs, err := h.uc.ListByNationalID(context.Background(), "529.982.247-25")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].NationalID != "529*****25" {
		t.Fatalf("unexpected records: %+v", recs)
	}

	_, err = h.uc.ListByNationalID(context.Background(), "11111111111")
	var fe *domain.FieldError
	if !errors.As(err, &fe) || !errors.Is(err, domain.ErrInvalidNationalID) {
		t.Fatalf("want FieldError ErrInvalidNationalID, got %v", err)
	}
	if fe.Value != "111*****11" {
		t.Fatalf("error value not masked: %q", fe.Value)
	}
}

// ----- verification -----

func TestSubmitVerificationStep_Walkthrough(t *testing.T) {
	row := storedSubmission(t)
	h := newHarness(t, row)
	ctx := context.Background()
	meta := domain.ClientMeta{IPAddress: "10.0.0.9", UserAgent: "test-agent"}

	steps := []struct {
		step         string
		value        string
		wantErr      error
		wantOutcome  domain.Outcome
		wantState    domain.State
		wantAttempts int
	}{
		{step: "birthDate", value: "01/01/1990", wantOutcome: domain.OutcomeFailed, wantState: domain.StateUnverified, wantAttempts: 1},
		{step: "motherName", value: "Maria José da Silva", wantErr: domain.ErrVerificationOutOfSequence},
		{step: "birthDate", value: "1985-03-15", wantOutcome: domain.OutcomePartial, wantState: domain.StatePartiallyVerified, wantAttempts: 1},
		{step: "motherName", value: "Joana", wantOutcome: domain.OutcomeFailed, wantState: domain.StatePartiallyVerified, wantAttempts: 2},
		{step: "motherName", value: "  maria   JOSE da silva ", wantOutcome: domain.OutcomeSucceeded, wantState: domain.StateVerified, wantAttempts: 2},
	}

	for i, st := range steps {
		dto, err := h.uc.SubmitVerificationStep(ctx, testSubmission, VerifyInput{Step: st.step, Value: st.value, Meta: meta})
		if st.wantErr != nil {
			if !errors.Is(err, st.wantErr) {
				t.Fatalf("step %d: want %v, got %v", i, st.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("step %d: unexpected err %v", i, err)
		}
		if dto.Outcome != st.wantOutcome || dto.State != st.wantState || dto.Attempts != st.wantAttempts {
			t.Fatalf("step %d: got outcome=%s state=%s attempts=%d", i, dto.Outcome, dto.State, dto.Attempts)
		}
	}

	if !row.Verification.Verified || row.Verification.Method != domain.MethodTwoStep {
		t.Fatalf("record not verified: %+v", row.Verification)
	}
	if row.Verification.IPAddress != "10.0.0.9" {
		t.Fatalf("attempt ip not recorded: %q", row.Verification.IPAddress)
	}
	if h.saves != 4 {
		t.Fatalf("saves=%d want 4", h.saves)
	}
	if n := len(h.events.byType(analyticsDomain.EventVerificationAttempt)); n != 4 {
		t.Fatalf("verification events=%d want 4", n)
	}
	if got := testutil.ToFloat64(h.metrics.VerificationAttempts.WithLabelValues("motherName", "rejected")); got != 1 {
		t.Fatalf("rejected counter=%v", got)
	}

	logs := h.logs.String()
	for _, secret := range []string{"Maria", "1985-03-15", "Joana"} {
		if strings.Contains(logs, secret) {
			t.Fatalf("audit log leaked %q", secret)
		}
	}
	if !strings.Contains(logs, mask.HashSecret("Joana")) {
		t.Fatalf("audit log missing value hash")
	}
}

func TestSubmitVerificationStep_VerifiedIsTerminal(t *testing.T) {
	row := storedSubmission(t)
	h := newHarness(t, row)
	ctx := context.Background()

	for _, st := range []VerifyInput{{Step: "birthDate", Value: "15/03/1985"}, {Step: "motherName", Value: "Maria Jose da Silva"}} {
		if _, err := h.uc.SubmitVerificationStep(ctx, testSubmission, st); err != nil {
			t.Fatalf("setup step %s: %v", st.Step, err)
		}
	}
	saves := h.saves

	dto, err := h.uc.SubmitVerificationStep(ctx, testSubmission, VerifyInput{Step: "birthDate", Value: "wrong"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dto.Outcome != domain.OutcomeSucceeded || dto.Attempts != 0 {
		t.Fatalf("terminal state changed: %+v", dto)
	}
	if h.saves != saves {
		t.Fatalf("verified record must not be saved again")
	}
}

func TestSubmitVerificationStep_Errors(t *testing.T) {
	h := newHarness(t, storedSubmission(t))
	ctx := context.Background()

	if _, err := h.uc.SubmitVerificationStep(ctx, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", VerifyInput{Step: "birthDate", Value: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := h.uc.SubmitVerificationStep(ctx, testSubmission, VerifyInput{Step: "password", Value: "x"}); !errors.Is(err, domain.ErrUnknownStep) {
		t.Fatalf("want ErrUnknownStep, got %v", err)
	}
	if h.saves != 0 {
		t.Fatalf("saves=%d want 0", h.saves)
	}

	boom := errors.New("save failed")
	h.repo.SaveFn = func(context.Context, *domain.Submission) error { return boom }
	if _, err := h.uc.SubmitVerificationStep(ctx, testSubmission, VerifyInput{Step: "birthDate", Value: "x"}); !errors.Is(err, boom) {
		t.Fatalf("want save error, got %v", err)
	}
	if n := len(h.events.byType(analyticsDomain.EventVerificationAttempt)); n != 0 {
		t.Fatalf("no attempt event expected on failure, got %d", n)
	}
}

// ----- status & comments -----

func TestUpdateStatus(t *testing.T) {
	row := storedSubmission(t)
	h := newHarness(t, row)
	ctx := context.Background()

	rec, err := h.uc.UpdateStatus(ctx, testSubmission, UpdateStatusInput{Status: "inReview"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rec.Status != domain.StatusInReview || row.Status != domain.StatusInReview {
		t.Fatalf("status not updated: %s", rec.Status)
	}
	ev := h.events.byType(analyticsDomain.EventSubmissionStatusUpdate)
	if len(ev) != 1 || ev[0].Data["previousStatus"] != "new" || ev[0].Data["newStatus"] != "inReview" {
		t.Fatalf("status event mismatch: %+v", ev)
	}

	if _, err := h.uc.UpdateStatus(ctx, testSubmission, UpdateStatusInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
	if h.saves != 1 {
		t.Fatalf("saves=%d want 1", h.saves)
	}
}

func TestAddComment(t *testing.T) {
	row := storedSubmission(t)
	h := newHarness(t, row)
	ctx := context.Background()

	if _, err := h.uc.AddComment(ctx, testSubmission, CommentInput{Text: "   "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}

	rec, err := h.uc.AddComment(ctx, testSubmission, CommentInput{Text: "called the customer"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(rec.Comments) != 1 || rec.Comments[0].CreatedBy != "admin" {
		t.Fatalf("comment mismatch: %+v", rec.Comments)
	}
	if len(row.Comments) != 1 {
		t.Fatalf("comment not persisted on the record")
	}
}

// ----- national ID check -----

func TestValidateNationalID(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	got := h.uc.ValidateNationalID(ctx, "529.982.247-25", "sess-1", domain.ClientMeta{})
	if !got.Valid || got.Masked != "529*****25" {
		t.Fatalf("valid id: %+v", got)
	}

	got = h.uc.ValidateNationalID(ctx, "5299822", "sess-1", domain.ClientMeta{})
	if got.Valid || got.Masked != "" {
		t.Fatalf("partial id: %+v", got)
	}

	ev := h.events.byType(analyticsDomain.EventNationalIDValidation)
	if len(ev) != 2 {
		t.Fatalf("events=%d want 2", len(ev))
	}
	if _, ok := ev[1].Data["masked"]; ok {
		t.Fatalf("partial input must not be echoed: %+v", ev[1].Data)
	}
	if ev[1].Data["length"] != 7 {
		t.Fatalf("length=%v", ev[1].Data["length"])
	}
	if v := testutil.ToFloat64(h.metrics.NationalIDValidations.WithLabelValues("false")); v != 1 {
		t.Fatalf("invalid counter=%v", v)
	}
}
