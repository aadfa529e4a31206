package submissionmock

import (
	"context"
	"errors"
	"testing"

	domain "disclosure-intake/internal/domain/submission"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	s := &domain.Submission{SubmissionID: "S-1"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Submission) error {
			called = true
			if gotCtx != ctx || got != s {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, s); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op
	m = &Repo{}
	if err := m.Create(ctx, s); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetBySubmissionID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Submission{SubmissionID: "S-2"}

	m := &Repo{
		GetBySubmissionIDFn: func(_ context.Context, submissionID string) (*domain.Submission, error) {
			if submissionID != "S-2" {
				t.Fatalf("submissionID mismatch: got %s", submissionID)
			}
			return want, nil
		},
	}
	got, err := m.GetBySubmissionID(ctx, "S-2")
	if err != nil || got != want {
		t.Fatalf("GetBySubmissionID: got %+v, %v", got, err)
	}

	// Default (nil func) → ErrNotFound
	m = &Repo{}
	got, err = m.GetBySubmissionID(ctx, "S-2")
	if !errors.Is(err, domain.ErrNotFound) || got != nil {
		t.Fatalf("GetBySubmissionID default: got %+v, %v", got, err)
	}
}

func TestRepo_GetBySubmissionIDForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Submission{SubmissionID: "S-3"}

	called := false
	m := &Repo{
		GetBySubmissionIDForUpdateFn: func(_ context.Context, submissionID string) (*domain.Submission, error) {
			called = true
			return want, nil
		},
	}
	got, err := m.GetBySubmissionIDForUpdate(ctx, "S-3")
	if err != nil || got != want || !called {
		t.Fatalf("GetBySubmissionIDForUpdate: got %+v, %v", got, err)
	}

	m = &Repo{}
	if _, err := m.GetBySubmissionIDForUpdate(ctx, "S-3"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default: want ErrNotFound, got %v", err)
	}
}

func TestRepo_ListByNationalID(t *testing.T) {
	ctx := context.Background()
	want := []domain.Submission{{SubmissionID: "S-4"}, {SubmissionID: "S-5"}}

	m := &Repo{
		ListByNationalIDFn: func(_ context.Context, nationalID string) ([]domain.Submission, error) {
			if nationalID != "52998224725" {
				t.Fatalf("nationalID mismatch: got %s", nationalID)
			}
			return want, nil
		},
	}
	got, err := m.ListByNationalID(ctx, "52998224725")
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByNationalID: got %+v, %v", got, err)
	}

	m = &Repo{}
	got, err = m.ListByNationalID(ctx, "52998224725")
	if err != nil || got != nil {
		t.Fatalf("ListByNationalID default: got %+v, %v", got, err)
	}
}

func TestRepo_Save(t *testing.T) {
	ctx := context.Background()
	s := &domain.Submission{SubmissionID: "S-6"}

	wantErr := errors.New("save-fail")
	m := &Repo{SaveFn: func(_ context.Context, got *domain.Submission) error {
		if got != s {
			t.Fatalf("Save arg mismatch")
		}
		return wantErr
	}}
	if err := m.Save(ctx, s); !errors.Is(err, wantErr) {
		t.Fatalf("Save: want %v, got %v", wantErr, err)
	}

	m = &Repo{}
	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
}
