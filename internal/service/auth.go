package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/logger"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 6
)

// AuthService handles registration, credential verification, and account
// deletion. Only the encoded argon2id hash is ever persisted.
type AuthService struct {
	users  UserStore
	media  MediaStore
	logger *logger.Logger
}

// NewAuthService constructs an AuthService. media is used to release
// review blobs when an account deletion cascades.
func NewAuthService(users UserStore, media MediaStore, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{users: users, media: media, logger: log}
}

// Register creates a new account. Fails with domain.ErrInvalidInput when
// the username or password violates shape constraints, and with
// domain.ErrConflict when the username is already taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return domain.User{}, err
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies credentials and returns the account. Unknown usernames
// and wrong passwords both surface as domain.ErrUnauthorized so the two
// cases are indistinguishable to a caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return domain.User{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	return user, nil
}

// DeleteAccount removes a user. The user's reviews are cascaded and every
// touched aggregate recomputed inside the repository transaction; the
// orphaned media blobs are released best-effort afterwards.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	mediaRefs, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for _, ref := range mediaRefs {
		if err := s.media.Delete(ref); err != nil {
			log.Warn().Err(err).Str("media_ref", ref).Msg("orphaned media cleanup failed")
		}
	}

	log.Info().Str("user_id", userID).Int("reviews_media_released", len(mediaRefs)).Msg("account deleted")
	return nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", domain.ErrInvalidInput, minUsernameLen, maxUsernameLen)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return fmt.Errorf("%w: username may only contain letters, digits, '_' and '-'", domain.ErrInvalidInput)
		}
	}
	return nil
}

// validatePassword enforces the signup policy: minimum length plus at
// least one upper-case letter and one digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must include an upper-case letter", domain.ErrInvalidInput)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must include a digit", domain.ErrInvalidInput)
	}
	return nil
}
