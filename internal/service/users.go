package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/auth"
	"github.com/iliyamo/event-listing/internal/metrics"
	"github.com/iliyamo/event-listing/internal/model"
	"github.com/iliyamo/event-listing/internal/repository"
	"github.com/iliyamo/event-listing/internal/utils"
)

// RegisterInput is a registration request validated at the boundary.
type RegisterInput struct {
	Username string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=320"`
	Password string `validate:"required,min=8,max=72"`
}

// maxPasswordBytes is bcrypt's input limit.  The max tag above counts
// characters, so multi-byte passwords are checked separately.
const maxPasswordBytes = 72

// LoginInput is a login request.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// UserService registers users and exchanges credentials for access tokens.
type UserService struct {
	users      repository.UserStore
	tokens     *auth.TokenService
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewUserService(users repository.UserStore, tokens *auth.TokenService, bcryptCost int, logger zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "users").Logger(),
		now:        time.Now,
	}
}

// TokenTTL reports the lifetime of tokens issued by Login.
func (s *UserService) TokenTTL() time.Duration { return s.tokens.TTL() }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Register creates a user.  The email must not already be registered; the
// password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (bson.ObjectID, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := checkStruct(in); err != nil {
		return bson.NilObjectID, err
	}
	if len(in.Password) > maxPasswordBytes {
		return bson.NilObjectID, newError(ErrValidation, "password must be at most %d bytes", maxPasswordBytes)
	}

	n, err := s.users.CountByEmail(ctx, in.Email)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return bson.NilObjectID, newError(ErrConflict, "User already exists!")
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.Insert(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return bson.NilObjectID, newError(ErrConflict, "User already exists!")
		}
		return bson.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	s.logger.Info().Str("user_id", id.Hex()).Msg("user registered")
	return id, nil
}

// Login verifies the credentials and issues an access token bound to the
// user's id.
func (s *UserService) Login(ctx context.Context, in LoginInput) (auth.AccessToken, error) {
	in.Email = normalizeEmail(in.Email)
	if err := checkStruct(in); err != nil {
		return auth.AccessToken{}, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("unknown_user").Inc()
			return auth.AccessToken{}, newError(ErrNotFound, "User not found!")
		}
		return auth.AccessToken{}, fmt.Errorf("find user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		metrics.LoginAttempts.WithLabelValues("bad_password").Inc()
		return auth.AccessToken{}, newError(ErrUnauthorized, "Invalid credentials")
	}

	tok, err := s.tokens.Issue(u.ID.Hex())
	if err != nil {
		return auth.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	return tok, nil
}
