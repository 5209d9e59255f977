package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rollcall-app/rollcall/internal/app/models"
	"github.com/rollcall-app/rollcall/internal/pkg/apperrors"
	"github.com/rollcall-app/rollcall/internal/pkg/classcode"
)

// fakeClassStore fails Create with the queued errors, in order, before
// accepting the insert.
type fakeClassStore struct {
	createErrs  []error
	createCalls int
	created     []models.Class
	nextID      int64
}

func (f *fakeClassStore) Create(ctx context.Context, class *models.Class) error {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	f.nextID++
	class.ID = f.nextID
	f.created = append(f.created, *class)
	return nil
}

func (f *fakeClassStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (f *fakeClassStore) ListByProfessor(ctx context.Context, professorID int64) ([]models.ClassWithCounts, error) {
	return nil, nil
}

func (f *fakeClassStore) Update(ctx context.Context, class *models.Class) error { return nil }

func (f *fakeClassStore) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeClassStore) CountEntries(ctx context.Context, classID int64) (int, error) {
	return 0, nil
}

func newTestClassService(store *fakeClassStore) *ClassService {
	return NewClassService(store, nil, nil, nil, nil, nil)
}

func TestCreateClass(t *testing.T) {
	ctx := context.Background()
	store := &fakeClassStore{}
	svc := newTestClassService(store)

	section := "A"
	class, err := svc.CreateClass(ctx, 10, "  Physics 101  ", &section, nil, nil)
	if err != nil {
		t.Fatalf("CreateClass() error = %v", err)
	}
	if class.Subject != "Physics 101" {
		t.Errorf("Subject = %q, want %q", class.Subject, "Physics 101")
	}
	if !classcode.IsValid(class.ClassCode) {
		t.Errorf("ClassCode = %q, want a valid join code", class.ClassCode)
	}
	if class.ID == 0 {
		t.Error("ID = 0, want assigned by store")
	}
}

func TestCreateClassRejectsBlankSubject(t *testing.T) {
	ctx := context.Background()
	store := &fakeClassStore{}
	svc := newTestClassService(store)

	if _, err := svc.CreateClass(ctx, 10, "   ", nil, nil, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("CreateClass() error = %v, want ErrValidationFailed", err)
	}
	if store.createCalls != 0 {
		t.Errorf("store.createCalls = %d, want 0", store.createCalls)
	}
}

func TestCreateClassRegeneratesOnCodeRace(t *testing.T) {
	ctx := context.Background()
	store := &fakeClassStore{
		createErrs: []error{apperrors.ErrClassCodeTaken, apperrors.ErrClassCodeTaken},
	}
	svc := newTestClassService(store)

	class, err := svc.CreateClass(ctx, 10, "Physics 101", nil, nil, nil)
	if err != nil {
		t.Fatalf("CreateClass() error = %v", err)
	}
	if store.createCalls != 3 {
		t.Errorf("store.createCalls = %d, want 3", store.createCalls)
	}
	if !classcode.IsValid(class.ClassCode) {
		t.Errorf("ClassCode = %q, want a valid join code", class.ClassCode)
	}
}

func TestCreateClassGivesUpAfterRepeatedRaces(t *testing.T) {
	ctx := context.Background()
	store := &fakeClassStore{
		createErrs: []error{apperrors.ErrClassCodeTaken, apperrors.ErrClassCodeTaken, apperrors.ErrClassCodeTaken},
	}
	svc := newTestClassService(store)

	if _, err := svc.CreateClass(ctx, 10, "Physics 101", nil, nil, nil); !errors.Is(err, apperrors.ErrClassCodeTaken) {
		t.Errorf("CreateClass() error = %v, want ErrClassCodeTaken", err)
	}
	if store.createCalls != createClassAttempts {
		t.Errorf("store.createCalls = %d, want %d", store.createCalls, createClassAttempts)
	}
}

func TestCreateClassPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection reset")
	store := &fakeClassStore{createErrs: []error{storeErr}}
	svc := newTestClassService(store)

	if _, err := svc.CreateClass(ctx, 10, "Physics 101", nil, nil, nil); !errors.Is(err, storeErr) {
		t.Errorf("CreateClass() error = %v, want %v", err, storeErr)
	}
	if store.createCalls != 1 {
		t.Errorf("store.createCalls = %d, want 1", store.createCalls)
	}
}
