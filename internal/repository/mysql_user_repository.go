package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/brainiacs/portal/internal/model"
)

const usersSchema = `CREATE TABLE IF NOT EXISTS users (
	id            CHAR(36)     NOT NULL PRIMARY KEY,
	email         VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role          VARCHAR(16)  NOT NULL,
	profile       JSON         NULL,
	created_at    DATETIME(6)  NOT NULL,
	UNIQUE KEY users_email_unique (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQLUserRepo mirrors users into the 'users' table.  The role-specific
// profile is kept as a JSON column.
type MySQLUserRepo struct{ DB *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{DB: db} }

// EnsureSchema creates the users table when it does not exist.
func (r *MySQLUserRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, usersSchema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Create inserts the user.  MySQL error 1062 on the unique email key maps
// to ErrEmailExists.
func (r *MySQLUserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	profile, err := encodeProfile(u.Profile)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, profile, created_at) VALUES (?,?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, string(u.Role), profile, u.CreatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,profile,created_at FROM users WHERE email=? LIMIT 1",
		model.NormalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,profile,created_at FROM users WHERE id=? LIMIT 1", id))
}

func (r *MySQLUserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u       model.User
		role    string
		profile []byte
		created time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &profile, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Role = model.Role(role)
	u.CreatedAt = created.UTC()
	p, err := decodeProfile(u.Role, profile)
	if err != nil {
		return model.User{}, err
	}
	u.Profile = p
	return u, nil
}

func (r *MySQLUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email=? LIMIT 1", model.NormalizeEmail(email)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// UpdateProfile rewrites the profile column of the user whose role matches
// the profile's role.  id, email and role are never written.
func (r *MySQLUserRepo) UpdateProfile(ctx context.Context, id string, p model.Profile) (model.User, error) {
	if p == nil {
		return model.User{}, ErrNotFound
	}
	profile, err := encodeProfile(p)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile=? WHERE id=? AND role=?", profile, id, string(p.Role()))
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports zero affected rows for an unchanged row as well, so
		// confirm the user exists with that role before giving up.
		u, err := r.GetByID(ctx, id)
		if err != nil {
			return model.User{}, err
		}
		if u.Role != p.Role() {
			return model.User{}, ErrNotFound
		}
		return u, nil
	}
	return r.GetByID(ctx, id)
}

func (r *MySQLUserRepo) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		return nil, fmt.Errorf("count roles: %w", err)
	}
	defer rows.Close()
	out := map[model.Role]int64{}
	for rows.Next() {
		var (
			role string
			n    int64
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		out[model.Role(role)] = n
	}
	return out, rows.Err()
}

// encodeProfile returns the JSON column value for p, or nil for admins.
func encodeProfile(p model.Profile) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return b, nil
}

// decodeProfile builds the profile variant for role from the JSON column.
// Students and teachers must have one; admins never do.
func decodeProfile(role model.Role, raw []byte) (model.Profile, error) {
	if role != model.RoleStudent && role != model.RoleTeacher {
		return nil, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrMissingProfile
	}
	switch role {
	case model.RoleStudent:
		var p model.StudentProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode student profile: %w", err)
		}
		return cloneProfile(&p), nil
	case model.RoleTeacher:
		var p model.TeacherProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode teacher profile: %w", err)
		}
		return cloneProfile(&p), nil
	}
	return nil, nil
}
