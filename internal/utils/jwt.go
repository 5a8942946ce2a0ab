package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"
)

var (
    // ErrInvalidToken is returned by Verify for every token that cannot be
    // trusted: bad signature, wrong algorithm, expired or malformed.
    ErrInvalidToken = errors.New("invalid token")
    // ErrNoSecret is returned when the token service is built without a
    // signing secret.
    ErrNoSecret = errors.New("jwt secret is not configured")
)

// Claims are the claims carried by an access token.  The subject is the
// user ID and the ID (jti) identifies the token for revocation.
type Claims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  ID is the token's jti and Exp
// the expiration timestamp.
type AccessToken struct {
    Token string
    ID    string
    Exp   time.Time
}

// TokenService issues and verifies HS256 access tokens with one
// process-wide secret and TTL.
type TokenService struct {
    secret []byte
    ttl    time.Duration
    now    func() time.Time
}

// NewTokenService builds a TokenService.  An empty secret or a non-positive
// TTL is an error; there is no default secret.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
    if secret == "" {
        return nil, ErrNoSecret
    }
    if ttl <= 0 {
        return nil, errors.New("token ttl must be positive")
    }
    return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
    cp := *s
    cp.now = now
    return &cp
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue builds and signs a JWT for a user.  The token carries sub, role,
// iat, exp = iat + TTL and a random jti.
func (s *TokenService) Issue(userID, role string) (AccessToken, error) {
    iat := s.now().UTC().Truncate(time.Second)
    exp := iat.Add(s.ttl)
    claims := Claims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            ID:        uuid.NewString(),
            IssuedAt:  jwt.NewNumericDate(iat),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(s.secret)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, ID: claims.ID, Exp: exp}, nil
}

// Verify checks the signature and the validity window of raw and returns
// its claims.  Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(raw string) (Claims, error) {
    var claims Claims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return s.secret, nil
    },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithIssuedAt(),
        jwt.WithTimeFunc(s.now),
    )
    if err != nil || tok == nil || !tok.Valid {
        return Claims{}, ErrInvalidToken
    }
    if claims.Subject == "" || claims.Role == "" {
        return Claims{}, ErrInvalidToken
    }
    return claims, nil
}
