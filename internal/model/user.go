package model

import (
    "errors"
    "fmt"
    "strings"
    "time"
)

// Role is the coarse permission class of a user.  It is assigned at signup
// and never changes afterwards.
type Role string

const (
    RoleStudent Role = "student"
    RoleTeacher Role = "teacher"
    RoleAdmin   Role = "admin"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
    switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
    case RoleStudent, RoleTeacher, RoleAdmin:
        return r, true
    }
    return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    switch r {
    case RoleStudent, RoleTeacher, RoleAdmin:
        return true
    }
    return false
}

// NormalizeEmail returns the canonical form under which emails are stored
// and looked up: trimmed and lower-cased.
func NormalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

// User represents an account of the portal.
//
// Fields:
//  ID           – opaque identifier assigned at creation (UUID string).
//  Email        – unique, normalized email address.
//  PasswordHash – bcrypt hash of the password; never serialized to clients.
//  Role         – student, teacher or admin.
//  Profile      – the role-specific profile.  *StudentProfile for students,
//                 *TeacherProfile for teachers and nil for admins.
//  CreatedAt    – UTC timestamp of creation.
type User struct {
    ID           string
    Email        string
    PasswordHash string
    Role         Role
    Profile      Profile
    CreatedAt    time.Time
}

// Identity is what the auth middleware attaches to a request once the
// bearer token has been verified and the user resolved.
type Identity struct {
    ID   string
    Role Role
}

// Identity returns the request identity of u.
func (u User) Identity() Identity { return Identity{ID: u.ID, Role: u.Role} }

// Student returns the student profile of u, if u is a student.
func (u User) Student() (*StudentProfile, bool) {
    p, ok := u.Profile.(*StudentProfile)
    return p, ok && p != nil
}

// Teacher returns the teacher profile of u, if u is a teacher.
func (u User) Teacher() (*TeacherProfile, bool) {
    p, ok := u.Profile.(*TeacherProfile)
    return p, ok && p != nil
}

var (
    ErrUnknownRole     = errors.New("unknown role")
    ErrProfileMismatch = errors.New("profile does not match role")
)

// FieldError names a profile field that failed validation.
type FieldError struct {
    Field  string
    Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

// Validate checks the structural invariants of u: a known role, exactly the
// profile variant that matches the role (none for admins) and a valid
// profile.
func (u User) Validate() error {
    if !u.Role.Valid() {
        return ErrUnknownRole
    }
    if u.Email == "" {
        return &FieldError{Field: "email", Reason: "is required"}
    }
    if u.Role == RoleAdmin {
        if u.Profile != nil {
            return ErrProfileMismatch
        }
        return nil
    }
    if u.Profile == nil || u.Profile.Role() != u.Role {
        return ErrProfileMismatch
    }
    switch p := u.Profile.(type) {
    case *StudentProfile:
        if p == nil {
            return ErrProfileMismatch
        }
    case *TeacherProfile:
        if p == nil {
            return ErrProfileMismatch
        }
    }
    return u.Profile.Validate()
}
