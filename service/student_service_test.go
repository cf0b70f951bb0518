package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/test/mock"
	"github.com/Aisenh037/MBC-sub002/util"
)

type fakeStudentRepo struct {
	students map[string]*model.Student
	getCalls int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]*model.Student{}}
}

func (f *fakeStudentRepo) CreateStudent(ctx context.Context, student model.Student) (string, error) {
	if student.ID == "" {
		student.ID = "gen-1"
	}
	f.students[student.ID] = &student
	return student.ID, nil
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.Student, error) {
	f.getCalls++
	s, ok := f.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if !scope.Global && s.InstitutionID != scope.InstitutionID {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudentRepo) UpdateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error) {
	if _, ok := f.students[student.ID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	f.students[student.ID] = &student
	return &student, nil
}

func (f *fakeStudentRepo) DeleteStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) error {
	if _, ok := f.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, studentID)
	return nil
}

func (f *fakeStudentRepo) ListStudents(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Student, error) {
	var out []*model.Student
	for _, s := range f.students {
		if scope.Global || s.InstitutionID == scope.InstitutionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func newStudentService(repo service.StudentRepository, store cache.Store) *service.StudentService {
	c := cache.New(store, "mbc", cache.DefaultTTLs())
	return service.NewStudentService(repo, util.NewValidationUtil(), c, util.NewNotificationService(), util.NewEventBus())
}

func TestGetStudentCachesSecondRead(t *testing.T) {
	repo := newFakeStudentRepo()
	store := mock.NewStore()
	svc := newStudentService(repo, store)
	ctx := context.Background()
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	repo.students["s1"] = &model.Student{ID: "s1", Name: "Asha", InstitutionID: "inst-1"}

	first, err := svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)
	second, err := svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetStudentDegradesWithFailingStore(t *testing.T) {
	repo := newFakeStudentRepo()
	store := mock.NewStore()
	store.FailAll = true
	svc := newStudentService(repo, store)
	ctx := context.Background()
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	repo.students["s1"] = &model.Student{ID: "s1", Name: "Asha", InstitutionID: "inst-1"}

	student, err := svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", student.Name)
	// Every read goes to the repository while the store is down.
	_, err = svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}

func TestCreateStudentForcesCallerInstitution(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newStudentService(repo, mock.NewStore())
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, auth.ScopedQuery{InstitutionID: "inst-1"},
		model.Student{Name: "Asha", Email: "asha@example.edu", RollNumber: "R1", InstitutionID: "inst-other"})
	require.NoError(t, err)
	assert.Equal(t, "inst-1", created.InstitutionID)
}

func TestCreateStudentValidation(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newStudentService(repo, mock.NewStore())

	_, err := svc.CreateStudent(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.Student{Name: "Asha", Email: "not-an-email", RollNumber: "R1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStudentData)
	assert.Empty(t, repo.students)
}

func TestUpdateStudentInvalidatesCachedViews(t *testing.T) {
	repo := newFakeStudentRepo()
	store := mock.NewStore()
	svc := newStudentService(repo, store)
	ctx := context.Background()
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	repo.students["s1"] = &model.Student{ID: "s1", Name: "Asha", InstitutionID: "inst-1"}

	_, err := svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	updated := model.Student{ID: "s1", Name: "Asha K", Email: "asha@example.edu", RollNumber: "R1", InstitutionID: "inst-1"}
	_, err = svc.UpdateStudent(ctx, scope, updated)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	// The next read recomputes.
	student, err := svc.GetStudent(ctx, scope, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", student.Name)
	assert.Equal(t, 2, repo.getCalls)
}

func TestGetStudentOutsideScopeNotFound(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newStudentService(repo, mock.NewStore())
	ctx := context.Background()

	repo.students["s1"] = &model.Student{ID: "s1", InstitutionID: "inst-1"}

	_, err := svc.GetStudent(ctx, auth.ScopedQuery{InstitutionID: "inst-2"}, "s1")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
