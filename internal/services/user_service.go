package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/isdelr/diary/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db   *sql.DB
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService creates a new UserService hashing passwords at the given bcrypt cost.
func NewUserService(db *sql.DB, cost int) *UserService {
	return &UserService{db: db, cost: cost}
}

// getUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, ErrPasswordTooLong
		}
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO users(email, password_hash) VALUES(?, ?)", email, string(hashedPassword))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Email: email}, nil
}

// Authenticate verifies a user's credentials. Unknown emails and wrong
// passwords produce the same error and take comparable time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return models.User{}, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// SeedDefaultUser creates the given account if no user exists yet.
// It reports whether an account was created.
func (s *UserService) SeedDefaultUser(ctx context.Context, email, password string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Register(ctx, email, password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("diary-timing-equalizer"), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
