package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, username, password string) (*User, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         "USER",
		Enabled:      true,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO users(id, username, password_hash, role, enabled, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.Enabled, u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repo) ByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, `SELECT id, username, password_hash, role, enabled, created_at
		FROM users WHERE id=$1`, id)
}

func (r *Repo) ByUsername(ctx context.Context, username string) (*User, error) {
	return r.get(ctx, `SELECT id, username, password_hash, role, enabled, created_at
		FROM users WHERE username=$1`, username)
}

func (r *Repo) get(ctx context.Context, q, arg string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Enabled, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate verifies credentials; disabled accounts fail the same way as
// bad passwords so probing reveals nothing.
func (r *Repo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := r.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Enabled || !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
