package utils

import (
    "encoding/base64"
    "strings"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func fixedClock(t *time.Time) func() time.Time {
    return func() time.Time { return *t }
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
    _, err := NewTokenService("", time.Hour)
    assert.ErrorIs(t, err, ErrNoSecret)

    _, err = NewTokenService("s", 0)
    assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
    svc, err := NewTokenService("super-secret", 24*time.Hour)
    require.NoError(t, err)

    tok, err := svc.Issue("user-123", "student")
    require.NoError(t, err)
    require.NotEmpty(t, tok.ID)

    claims, err := svc.Verify(tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "user-123", claims.Subject)
    assert.Equal(t, "student", claims.Role)
    assert.Equal(t, tok.ID, claims.ID)
    assert.Equal(t, claims.IssuedAt.Add(24*time.Hour), claims.ExpiresAt.Time)
}

func TestVerify_ValidityWindow(t *testing.T) {
    now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
    base, err := NewTokenService("k", time.Hour)
    require.NoError(t, err)
    svc := base.WithClock(fixedClock(&now))

    tok, err := svc.Issue("u1", "teacher")
    require.NoError(t, err)
    issued := now

    for _, d := range []time.Duration{0, time.Second, 30 * time.Minute, time.Hour - time.Second} {
        now = issued.Add(d)
        _, err := svc.Verify(tok.Token)
        assert.NoError(t, err, "at +%s", d)
    }
    for _, d := range []time.Duration{time.Hour, time.Hour + time.Second, 48 * time.Hour} {
        now = issued.Add(d)
        _, err := svc.Verify(tok.Token)
        assert.ErrorIs(t, err, ErrInvalidToken, "at +%s", d)
    }
}

func TestVerify_WrongSecret(t *testing.T) {
    a, _ := NewTokenService("right-secret", time.Hour)
    b, _ := NewTokenService("wrong-secret", time.Hour)

    tok, err := a.Issue("u2", "admin")
    require.NoError(t, err)
    _, err = b.Verify(tok.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
    svc, _ := NewTokenService("k", time.Hour)
    for _, raw := range []string{"", "not.a.jwt", "abc", "a.b.c.d", "...."} {
        _, err := svc.Verify(raw)
        assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
    }
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
    svc, _ := NewTokenService("k", time.Hour)
    claims := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
        Subject:   "u1",
        IssuedAt:  jwt.NewNumericDate(time.Now()),
        ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
    }}

    none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
    require.NoError(t, err)
    _, err = svc.Verify(none)
    assert.ErrorIs(t, err, ErrInvalidToken)

    hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
    require.NoError(t, err)
    _, err = svc.Verify(hs512)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiryAndSubject(t *testing.T) {
    svc, _ := NewTokenService("k", time.Hour)

    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "student",
        RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}).SignedString([]byte("k"))
    require.NoError(t, err)
    _, err = svc.Verify(noExp)
    assert.ErrorIs(t, err, ErrInvalidToken)

    noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "student",
        RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}).SignedString([]byte("k"))
    require.NoError(t, err)
    _, err = svc.Verify(noSub)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

// Every byte of every segment is flipped in turn; none of the results may
// verify.
func TestVerify_AnyTamperedByteIsRejected(t *testing.T) {
    svc, _ := NewTokenService("k", time.Hour)
    tok, err := svc.Issue("u1", "student")
    require.NoError(t, err)

    segs := strings.Split(tok.Token, ".")
    require.Len(t, segs, 3)
    enc := base64.RawURLEncoding

    for s := range segs {
        raw, err := enc.DecodeString(segs[s])
        require.NoError(t, err)
        for i := range raw {
            mutated := append([]byte(nil), raw...)
            mutated[i] ^= 0x01
            parts := append([]string(nil), segs...)
            parts[s] = enc.EncodeToString(mutated)
            _, err := svc.Verify(strings.Join(parts, "."))
            assert.ErrorIs(t, err, ErrInvalidToken, "segment %d byte %d", s, i)
        }
    }
}
