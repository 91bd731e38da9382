package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/database"
)

const invalidCredentials = "invalid username or password"

type UserStore interface {
	AddUser(ctx context.Context, username, password, fullname string) (string, error)
	FindUserByID(ctx context.Context, id string) (User, error)
	VerifyCredential(ctx context.Context, username, password string) (string, error)
	DeleteUser(ctx context.Context, id string) error
}

type RefreshTokenStore interface {
	AddRefreshToken(ctx context.Context, token string) error
	VerifyRefreshToken(ctx context.Context, token string) error
	DeleteRefreshToken(ctx context.Context, token string) error
}

type PostgresUsers struct {
	db   database.DB
	cost int
}

func NewPostgresUsers(db database.DB, bcryptCost int) *PostgresUsers {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresUsers{db: db, cost: bcryptCost}
}

func (s *PostgresUsers) AddUser(ctx context.Context, username, password, fullname string) (string, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists); err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if exists {
		return "", apperr.Invariant("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := "user-" + uuid.NewString()
	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id, username, password, fullname) VALUES ($1, $2, $3, $4)`,
		id, username, string(hash), fullname,
	)
	if database.IsUniqueViolation(err) {
		return "", apperr.Invariant("username already taken")
	}
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *PostgresUsers) FindUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, fullname FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Fullname)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// VerifyCredential returns the user id for a matching username/password pair.
// Unknown users and wrong passwords return the same error.
func (s *PostgresUsers) VerifyCredential(ctx context.Context, username, password string) (string, error) {
	var id, hash string
	err := s.db.QueryRow(ctx,
		`SELECT id, password FROM users WHERE username = $1`, username,
	).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.Authentication(invalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("find credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", apperr.Authentication(invalidCredentials)
	}
	return id, nil
}

// DeleteUser removes a user. Owned playlists, likes and collaborations go
// with it through the foreign keys.
func (s *PostgresUsers) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

type PostgresRefreshTokens struct {
	db database.DB
}

func NewPostgresRefreshTokens(db database.DB) *PostgresRefreshTokens {
	return &PostgresRefreshTokens{db: db}
}

func (s *PostgresRefreshTokens) AddRefreshToken(ctx context.Context, token string) error {
	if _, err := s.db.Exec(ctx, `INSERT INTO authentications (token) VALUES ($1)`, token); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (s *PostgresRefreshTokens) VerifyRefreshToken(ctx context.Context, token string) error {
	var found bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM authentications WHERE token = $1)`, token,
	).Scan(&found); err != nil {
		return fmt.Errorf("check refresh token: %w", err)
	}
	if !found {
		return apperr.Invariant("refresh token is invalid")
	}
	return nil
}

func (s *PostgresRefreshTokens) DeleteRefreshToken(ctx context.Context, token string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM authentications WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
