package model

import (
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func validStudent() *StudentProfile {
    return &StudentProfile{StudentID: "S1", Course: "CS", Semester: "1", Degree: "BSc"}
}

func validTeacher() *TeacherProfile {
    return &TeacherProfile{TeacherID: "T1", Department: "Math", Specialization: "Algebra"}
}

func TestParseRole(t *testing.T) {
    r, ok := ParseRole("  Teacher ")
    require.True(t, ok)
    assert.Equal(t, RoleTeacher, r)

    _, ok = ParseRole("owner")
    assert.False(t, ok)
    _, ok = ParseRole("")
    assert.False(t, ok)
}

func TestNormalizeEmail(t *testing.T) {
    assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestUserValidate_ProfileMatchesRole(t *testing.T) {
    cases := []struct {
        name    string
        user    User
        wantErr error
    }{
        {"student ok", User{Email: "a@x.com", Role: RoleStudent, Profile: validStudent()}, nil},
        {"teacher ok", User{Email: "a@x.com", Role: RoleTeacher, Profile: validTeacher()}, nil},
        {"admin ok", User{Email: "a@x.com", Role: RoleAdmin}, nil},
        {"admin with profile", User{Email: "a@x.com", Role: RoleAdmin, Profile: validStudent()}, ErrProfileMismatch},
        {"student without profile", User{Email: "a@x.com", Role: RoleStudent}, ErrProfileMismatch},
        {"student with teacher profile", User{Email: "a@x.com", Role: RoleStudent, Profile: validTeacher()}, ErrProfileMismatch},
        {"typed nil profile", User{Email: "a@x.com", Role: RoleStudent, Profile: (*StudentProfile)(nil)}, ErrProfileMismatch},
        {"unknown role", User{Email: "a@x.com", Role: "owner"}, ErrUnknownRole},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := tc.user.Validate()
            if tc.wantErr == nil {
                assert.NoError(t, err)
                return
            }
            assert.ErrorIs(t, err, tc.wantErr)
        })
    }
}

func TestStudentProfileValidate(t *testing.T) {
    p := validStudent()
    p.Degree = "  "
    var fe *FieldError
    require.True(t, errors.As(p.Validate(), &fe))
    assert.Equal(t, "degree", fe.Field)

    p = validStudent()
    p.StudyHours = -1
    require.True(t, errors.As(p.Validate(), &fe))
    assert.Equal(t, "studyHours", fe.Field)
}

func TestTeacherProfileValidate(t *testing.T) {
    p := validTeacher()
    p.TeacherID = ""
    var fe *FieldError
    require.True(t, errors.As(p.Validate(), &fe))
    assert.Equal(t, "teacherId", fe.Field)

    p = validTeacher()
    p.Experience = -2
    require.True(t, errors.As(p.Validate(), &fe))
    assert.Equal(t, "experience", fe.Field)
}

func TestUserProfileAccessors(t *testing.T) {
    u := User{Role: RoleStudent, Profile: validStudent()}
    sp, ok := u.Student()
    require.True(t, ok)
    assert.Equal(t, "S1", sp.StudentID)
    _, ok = u.Teacher()
    assert.False(t, ok)
    assert.Equal(t, Identity{ID: "", Role: RoleStudent}, u.Identity())
}
