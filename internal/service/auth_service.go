// Package service holds the authentication flows and profile operations.
// Methods return *Error values whose Kind tells the HTTP layer which status
// to send; wrapped causes are for logs only.
package service

import (
    "context"
    "errors"
    "strings"
    "sync"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/google/uuid"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/model"
    "github.com/brainiacs/portal/internal/queue"
    "github.com/brainiacs/portal/internal/repository"
    "github.com/brainiacs/portal/internal/utils"
    "github.com/brainiacs/portal/internal/validation"
)

// Revocations is the optional denylist of revoked token ids.
type Revocations interface {
    Revoke(ctx context.Context, jti string, exp time.Time) error
    IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher receives domain events.  Publishing is best effort.
type EventPublisher interface {
    PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// SignupInput is the signup request.  Role-specific fields are required
// according to Role; the others are ignored.
type SignupInput struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
    Role     string `json:"role" validate:"required,oneof=student teacher"`
    Name     string `json:"name"`
    Bio      string `json:"bio"`

    StudentID string   `json:"studentId" validate:"required_if=Role student"`
    Course    string   `json:"course" validate:"required_if=Role student"`
    Semester  string   `json:"semester" validate:"required_if=Role student"`
    Degree    string   `json:"degree" validate:"required_if=Role student"`
    Interests []string `json:"interests"`

    TeacherID      string   `json:"teacherId" validate:"required_if=Role teacher"`
    Department     string   `json:"department" validate:"required_if=Role teacher"`
    Specialization string   `json:"specialization" validate:"required_if=Role teacher"`
    Qualifications []string `json:"qualifications"`
    Experience     int      `json:"experience" validate:"gte=0"`
}

// profile builds the profile variant for role from the input.
func (in SignupInput) profile(role model.Role) model.Profile {
    switch role {
    case model.RoleStudent:
        return &model.StudentProfile{
            Name:      strings.TrimSpace(in.Name),
            StudentID: strings.TrimSpace(in.StudentID),
            Course:    strings.TrimSpace(in.Course),
            Semester:  strings.TrimSpace(in.Semester),
            Degree:    strings.TrimSpace(in.Degree),
            Bio:       in.Bio,
            Interests: nonNil(in.Interests),
        }
    case model.RoleTeacher:
        return &model.TeacherProfile{
            Name:           strings.TrimSpace(in.Name),
            TeacherID:      strings.TrimSpace(in.TeacherID),
            Department:     strings.TrimSpace(in.Department),
            Specialization: strings.TrimSpace(in.Specialization),
            Qualifications: nonNil(in.Qualifications),
            Experience:     in.Experience,
            Bio:            in.Bio,
            Courses:        []model.CourseSlot{},
        }
    }
    return nil
}

func nonNil(s []string) []string {
    if s == nil {
        return []string{}
    }
    return s
}

// Session is the result of a successful signup or login.
type Session struct {
    Token utils.AccessToken
    User  model.User
}

// Principal is the verified caller of a request: the resolved identity plus
// the id and expiry of the token it presented.
type Principal struct {
    model.Identity
    TokenID   string
    ExpiresAt time.Time
}

// AuthService implements signup, login, token authentication and logout.
type AuthService struct {
    Users      repository.UserStore
    Tokens     *utils.TokenService
    Revoked    Revocations
    Events     EventPublisher
    BcryptCost int
    Log        *logrus.Logger

    validate  *validator.Validate
    now       func() time.Time
    hash      func(plain string, cost int) (string, error)
    dummyMu   sync.Mutex
    dummyHash string
}

// fallbackDummyHash is a cost-10 bcrypt hash of an unused password.  It
// stands in when the per-process dummy hash cannot be generated.
const fallbackDummyHash = "$2b$10$91u0JjTUN80nW6wDA3nj0u9uEVLbjI7NZ8UH53kfKDdvTMsI9Sade"

func NewAuthService(users repository.UserStore, tokens *utils.TokenService, bcryptCost int, log *logrus.Logger) *AuthService {
    if users == nil || tokens == nil {
        panic("nil dependency passed to NewAuthService")
    }
    if log == nil {
        log = logrus.StandardLogger()
    }
    return &AuthService{
        Users:      users,
        Tokens:     tokens,
        BcryptCost: bcryptCost,
        Log:        log,
        validate:   validation.New(),
        now:        time.Now,
        hash:       utils.HashPassword,
    }
}

// WithRevocations enables server-side logout through r.
func (s *AuthService) WithRevocations(r Revocations) *AuthService { s.Revoked = r; return s }

// WithEvents publishes signup events to p.
func (s *AuthService) WithEvents(p EventPublisher) *AuthService { s.Events = p; return s }

// Signup validates the input, hashes the password, stores the user and
// opens a session.  The store's unique index decides email conflicts; the
// EmailExists pre-check only produces the error earlier.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
    in.Email = model.NormalizeEmail(in.Email)
    in.Role = strings.ToLower(strings.TrimSpace(in.Role))
    if err := s.validate.Struct(in); err != nil {
        return Session{}, ValidationError(validation.ToDetails(err))
    }
    if len(in.Password) > utils.MaxPasswordBytes {
        return Session{}, ValidationError(map[string]string{"password": "must be at most 72 bytes"})
    }
    role, _ := model.ParseRole(in.Role)

    taken, err := s.Users.EmailExists(ctx, in.Email)
    if err != nil {
        return Session{}, internalError("check email", err)
    }
    if taken {
        return Session{}, ErrEmailTaken
    }

    hash, err := s.hash(in.Password, s.BcryptCost)
    if err != nil {
        return Session{}, internalError("hash password", err)
    }
    u := model.User{
        ID:           uuid.NewString(),
        Email:        in.Email,
        PasswordHash: hash,
        Role:         role,
        Profile:      in.profile(role),
        CreatedAt:    s.now().UTC(),
    }
    if err := u.Validate(); err != nil {
        return Session{}, fromModelError(err)
    }
    if err := s.Users.Create(ctx, &u); err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return Session{}, ErrEmailTaken
        }
        return Session{}, internalError("create user", err)
    }

    tok, err := s.Tokens.Issue(u.ID, string(u.Role))
    if err != nil {
        return Session{}, internalError("issue token", err)
    }
    s.Log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
    s.publishRegistered(ctx, u)
    return Session{Token: tok, User: u}, nil
}

// CreateAdmin stores an admin account.  Admins cannot sign up through the
// API; this is used by the seed command.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (model.User, error) {
    email = model.NormalizeEmail(email)
    if err := s.validate.Var(email, "required,email"); err != nil {
        return model.User{}, ValidationError(map[string]string{"email": "must be a valid email"})
    }
    if password == "" || len(password) > utils.MaxPasswordBytes {
        return model.User{}, ValidationError(map[string]string{"password": "must be 1 to 72 bytes"})
    }
    hash, err := s.hash(password, s.BcryptCost)
    if err != nil {
        return model.User{}, internalError("hash password", err)
    }
    u := model.User{
        ID:           uuid.NewString(),
        Email:        email,
        PasswordHash: hash,
        Role:         model.RoleAdmin,
        CreatedAt:    s.now().UTC(),
    }
    if err := s.Users.Create(ctx, &u); err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return model.User{}, ErrEmailTaken
        }
        return model.User{}, internalError("create user", err)
    }
    return u, nil
}

// Login checks the credentials and opens a session.  An unknown email and a
// wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
    email = model.NormalizeEmail(email)
    fields := map[string]string{}
    if email == "" {
        fields["email"] = "is required"
    }
    if password == "" {
        fields["password"] = "is required"
    }
    if len(fields) > 0 {
        return Session{}, ValidationError(fields)
    }

    u, err := s.Users.GetByEmail(ctx, email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            // Burn the same bcrypt work as a real comparison.
            utils.VerifyPassword(s.dummy(), password)
            return Session{}, ErrInvalidCredentials
        }
        return Session{}, internalError("load user", err)
    }
    if !utils.VerifyPassword(u.PasswordHash, password) {
        return Session{}, ErrInvalidCredentials
    }

    tok, err := s.Tokens.Issue(u.ID, string(u.Role))
    if err != nil {
        return Session{}, internalError("issue token", err)
    }
    return Session{Token: tok, User: u}, nil
}

// Authenticate verifies a raw bearer token and resolves the user it names.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Principal, error) {
    if strings.TrimSpace(raw) == "" {
        return Principal{}, ErrNoToken
    }
    claims, err := s.Tokens.Verify(raw)
    if err != nil {
        return Principal{}, ErrInvalidToken
    }
    if _, ok := model.ParseRole(claims.Role); !ok {
        return Principal{}, ErrInvalidToken
    }
    if s.Revoked != nil && claims.ID != "" {
        revoked, err := s.Revoked.IsRevoked(ctx, claims.ID)
        if err != nil {
            return Principal{}, internalError("check revocation", err)
        }
        if revoked {
            return Principal{}, ErrInvalidToken
        }
    }
    u, err := s.Users.GetByID(ctx, claims.Subject)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return Principal{}, ErrUserNotFound
        }
        return Principal{}, internalError("load user", err)
    }
    p := Principal{Identity: u.Identity(), TokenID: claims.ID}
    if claims.ExpiresAt != nil {
        p.ExpiresAt = claims.ExpiresAt.Time
    }
    return p, nil
}

// Me returns the user behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, id string) (model.User, error) {
    u, err := s.Users.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return model.User{}, ErrUserNotFound
        }
        return model.User{}, internalError("load user", err)
    }
    return u, nil
}

// Logout revokes the token of p when a revocation store is configured.
// Without one, tokens simply run until they expire.
func (s *AuthService) Logout(ctx context.Context, p Principal) error {
    if s.Revoked == nil || p.TokenID == "" {
        return nil
    }
    if err := s.Revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
        return internalError("revoke token", err)
    }
    return nil
}

func (s *AuthService) publishRegistered(ctx context.Context, u model.User) {
    if s.Events == nil {
        return
    }
    ev := queue.UserRegisteredEvent{
        UserID:       u.ID,
        Email:        u.Email,
        Role:         string(u.Role),
        RegisteredAt: u.CreatedAt.Format(time.RFC3339),
    }
    if err := s.Events.PublishUserRegistered(ctx, ev); err != nil {
        s.Log.WithError(err).WithField("user_id", u.ID).Warn("publish user.registered failed")
    }
}

// dummy returns a bcrypt hash used to equalize login timing for unknown
// emails.  A failed generation is retried on the next call; meanwhile the
// built-in hash keeps the comparison as slow as a real one.
func (s *AuthService) dummy() string {
    s.dummyMu.Lock()
    defer s.dummyMu.Unlock()
    if s.dummyHash == "" {
        h, err := s.hash(uuid.NewString(), s.BcryptCost)
        if err != nil {
            s.Log.WithError(err).Warn("generate dummy hash failed; using built-in hash")
            return fallbackDummyHash
        }
        s.dummyHash = h
    }
    return s.dummyHash
}

// fromModelError converts model validation failures into service errors.
func fromModelError(err error) error {
    var fe *model.FieldError
    if errors.As(err, &fe) {
        return ValidationError(map[string]string{fe.Field: fe.Reason})
    }
    if errors.Is(err, model.ErrUnknownRole) {
        return ValidationError(map[string]string{"role": "is invalid"})
    }
    return internalError("validate user", err)
}
