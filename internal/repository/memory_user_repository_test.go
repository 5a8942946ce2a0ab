package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainiacs/portal/internal/model"
)

func newStudent(id, email string) *model.User {
	return &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleStudent,
		Profile:      &model.StudentProfile{StudentID: "S1", Course: "CS", Semester: "1", Degree: "BSc", Interests: []string{"go"}},
		CreatedAt:    time.Now().UTC(),
	}
}

func TestMemoryUserRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()

	require.NoError(t, r.Create(ctx, newStudent("u1", " A@X.com ")))

	u, err := r.GetByEmail(ctx, "a@x.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "a@x.com", u.Email)

	u, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	sp, ok := u.Student()
	require.True(t, ok)
	assert.Equal(t, "S1", sp.StudentID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = r.EmailExists(ctx, "A@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryUserRepo_EmailUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Create(ctx, newStudent("u1", "a@x.com")))
	assert.ErrorIs(t, r.Create(ctx, newStudent("u2", "A@X.COM")), ErrEmailExists)
}

func TestMemoryUserRepo_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := r.Create(ctx, newStudent(string(rune('a'+i)), "race@x.com"))
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				ok++
			case ErrEmailExists:
				dup++
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestMemoryUserRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Create(ctx, newStudent("u1", "a@x.com")))

	u, _ := r.GetByID(ctx, "u1")
	sp, _ := u.Student()
	sp.Interests[0] = "mutated"
	sp.StudentID = "X"

	again, _ := r.GetByID(ctx, "u1")
	sp2, _ := again.Student()
	assert.Equal(t, "S1", sp2.StudentID)
	assert.Equal(t, []string{"go"}, sp2.Interests)
}

func TestMemoryUserRepo_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Create(ctx, newStudent("u1", "a@x.com")))

	updated, err := r.UpdateProfile(ctx, "u1", &model.StudentProfile{StudentID: "S2", Course: "Math", Semester: "2", Degree: "MSc"})
	require.NoError(t, err)
	sp, _ := updated.Student()
	assert.Equal(t, "S2", sp.StudentID)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, model.RoleStudent, updated.Role)

	_, err = r.UpdateProfile(ctx, "u1", &model.TeacherProfile{TeacherID: "T"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.UpdateProfile(ctx, "missing", &model.StudentProfile{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepo_CountByRole(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Create(ctx, newStudent("u1", "a@x.com")))
	require.NoError(t, r.Create(ctx, newStudent("u2", "b@x.com")))
	require.NoError(t, r.Create(ctx, &model.User{ID: "u3", Email: "root@x.com", Role: model.RoleAdmin}))

	counts, err := r.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.RoleStudent])
	assert.Equal(t, int64(1), counts[model.RoleAdmin])
	assert.Zero(t, counts[model.RoleTeacher])
}

func TestMemoryUserRepo_EmptyListsSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	u := newStudent("u1", "a@x.com")
	u.Profile.(*model.StudentProfile).Interests = []string{}
	require.NoError(t, r.Create(ctx, u))
	require.NoError(t, r.Create(ctx, &model.User{
		ID: "t1", Email: "t@x.com", Role: model.RoleTeacher,
		Profile: &model.TeacherProfile{TeacherID: "T1", Qualifications: []string{}, Courses: []model.CourseSlot{}},
	}))

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	sp, _ := got.Student()
	assert.NotNil(t, sp.Interests)
	assert.Empty(t, sp.Interests)

	got, err = r.GetByID(ctx, "t1")
	require.NoError(t, err)
	tp, _ := got.Teacher()
	assert.NotNil(t, tp.Qualifications)
	assert.NotNil(t, tp.Courses)
}
