package service

import (
    "context"
    "errors"

    "github.com/brainiacs/portal/internal/model"
    "github.com/brainiacs/portal/internal/repository"
)

// StudentProfilePatch is a merge update of a student profile: nil fields
// keep their current value.  The avatar reference is not writable here.
type StudentProfilePatch struct {
    Name             *string   `json:"name"`
    StudentID        *string   `json:"studentId"`
    Course           *string   `json:"course"`
    Semester         *string   `json:"semester"`
    Degree           *string   `json:"degree"`
    Bio              *string   `json:"bio"`
    Interests        *[]string `json:"interests"`
    CoursesCompleted *int      `json:"coursesCompleted"`
    StudyHours       *int      `json:"studyHours"`
}

func (p StudentProfilePatch) apply(cur model.StudentProfile) model.StudentProfile {
    setString(&cur.Name, p.Name)
    setString(&cur.StudentID, p.StudentID)
    setString(&cur.Course, p.Course)
    setString(&cur.Semester, p.Semester)
    setString(&cur.Degree, p.Degree)
    setString(&cur.Bio, p.Bio)
    if p.Interests != nil {
        cur.Interests = nonNil(*p.Interests)
    }
    setInt(&cur.CoursesCompleted, p.CoursesCompleted)
    setInt(&cur.StudyHours, p.StudyHours)
    return cur
}

// TeacherProfilePatch is a merge update of a teacher profile.
type TeacherProfilePatch struct {
    Name           *string             `json:"name"`
    TeacherID      *string             `json:"teacherId"`
    Department     *string             `json:"department"`
    Specialization *string             `json:"specialization"`
    Qualifications *[]string           `json:"qualifications"`
    Experience     *int                `json:"experience"`
    Bio            *string             `json:"bio"`
    Courses        *[]model.CourseSlot `json:"courses"`
}

func (p TeacherProfilePatch) apply(cur model.TeacherProfile) model.TeacherProfile {
    setString(&cur.Name, p.Name)
    setString(&cur.TeacherID, p.TeacherID)
    setString(&cur.Department, p.Department)
    setString(&cur.Specialization, p.Specialization)
    setString(&cur.Bio, p.Bio)
    if p.Qualifications != nil {
        cur.Qualifications = nonNil(*p.Qualifications)
    }
    setInt(&cur.Experience, p.Experience)
    if p.Courses != nil {
        cur.Courses = append([]model.CourseSlot{}, *p.Courses...)
    }
    return cur
}

func setString(dst *string, v *string) {
    if v != nil {
        *dst = *v
    }
}

func setInt(dst *int, v *int) {
    if v != nil {
        *dst = *v
    }
}

// UserService serves profile management, admin lookups and user statistics
// to already-authenticated callers.
type UserService struct {
    Users repository.UserStore
}

func NewUserService(users repository.UserStore) *UserService {
    if users == nil {
        panic("nil repository passed to NewUserService")
    }
    return &UserService{Users: users}
}

// Get returns the user with the given id or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
    u, err := s.Users.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return model.User{}, ErrNotFound
        }
        return model.User{}, internalError("load user", err)
    }
    return u, nil
}

// Profile returns the profile of the user.  Admins have none and get
// ErrForbidden.
func (s *UserService) Profile(ctx context.Context, id string) (model.Profile, error) {
    u, err := s.Get(ctx, id)
    if err != nil {
        return nil, err
    }
    if u.Profile == nil {
        return nil, ErrForbidden
    }
    return u.Profile, nil
}

// UpdateStudentProfile merges patch into the student's profile.
func (s *UserService) UpdateStudentProfile(ctx context.Context, id string, patch StudentProfilePatch) (*model.StudentProfile, error) {
    u, err := s.Get(ctx, id)
    if err != nil {
        return nil, err
    }
    cur, ok := u.Student()
    if !ok {
        return nil, ErrForbidden
    }
    next := patch.apply(*cur)
    next.AvatarRef = cur.AvatarRef
    if err := next.Validate(); err != nil {
        return nil, fromModelError(err)
    }
    updated, err := s.store(ctx, id, &next)
    if err != nil {
        return nil, err
    }
    sp, _ := updated.Student()
    return sp, nil
}

// UpdateTeacherProfile merges patch into the teacher's profile.
func (s *UserService) UpdateTeacherProfile(ctx context.Context, id string, patch TeacherProfilePatch) (*model.TeacherProfile, error) {
    u, err := s.Get(ctx, id)
    if err != nil {
        return nil, err
    }
    cur, ok := u.Teacher()
    if !ok {
        return nil, ErrForbidden
    }
    next := patch.apply(*cur)
    next.AvatarRef = cur.AvatarRef
    if err := next.Validate(); err != nil {
        return nil, fromModelError(err)
    }
    updated, err := s.store(ctx, id, &next)
    if err != nil {
        return nil, err
    }
    tp, _ := updated.Teacher()
    return tp, nil
}

func (s *UserService) store(ctx context.Context, id string, p model.Profile) (model.User, error) {
    u, err := s.Users.UpdateProfile(ctx, id, p)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return model.User{}, ErrNotFound
        }
        return model.User{}, internalError("update profile", err)
    }
    return u, nil
}

// RoleCounts reports the number of users per role and in total.
type RoleCounts struct {
    Student int64 `json:"student"`
    Teacher int64 `json:"teacher"`
    Admin   int64 `json:"admin"`
    Total   int64 `json:"total"`
}

// CountUsers returns user counts per role.
func (s *UserService) CountUsers(ctx context.Context) (RoleCounts, error) {
    m, err := s.Users.CountByRole(ctx)
    if err != nil {
        return RoleCounts{}, internalError("count users", err)
    }
    rc := RoleCounts{
        Student: m[model.RoleStudent],
        Teacher: m[model.RoleTeacher],
        Admin:   m[model.RoleAdmin],
    }
    for _, n := range m {
        rc.Total += n
    }
    return rc, nil
}
