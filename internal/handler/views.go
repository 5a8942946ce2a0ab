package handler

import (
    "time"

    "github.com/brainiacs/portal/internal/model"
    "github.com/brainiacs/portal/internal/service"
)

// userView is the public shape of a user.  It has no password field of any
// kind, so nothing secret can be rendered by accident.
type userView struct {
    ID        string        `json:"id"`
    Email     string        `json:"email"`
    Role      model.Role    `json:"role"`
    Profile   model.Profile `json:"profile"`
    CreatedAt time.Time     `json:"createdAt"`
}

func toUserView(u model.User) userView {
    return userView{
        ID:        u.ID,
        Email:     u.Email,
        Role:      u.Role,
        Profile:   u.Profile,
        CreatedAt: u.CreatedAt,
    }
}

type sessionView struct {
    Token     string    `json:"token"`
    ExpiresAt time.Time `json:"expiresAt"`
    User      userView  `json:"user"`
}

func toSessionView(s service.Session) sessionView {
    return sessionView{
        Token:     s.Token.Token,
        ExpiresAt: s.Token.Exp,
        User:      toUserView(s.User),
    }
}
