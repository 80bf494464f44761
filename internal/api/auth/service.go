package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/users"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8

	// maxUsernameAttempts bounds generation when every candidate keeps colliding.
	maxUsernameAttempts = 20
)

type RegisterInput struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required"`
	Username  *string `json:"username"`
	IsCreator bool    `json:"is_creator"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	db     *gorm.DB
	tokens *TokenService
	logger *slog.Logger
}

func NewService(db *gorm.DB, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{db: db, tokens: tokens, logger: logger}
}

func (s *Service) Tokens() *TokenService { return s.tokens }

// Register creates a user. A blank username is generated from the email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (users.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return users.User{}, apierr.New(apierr.ErrValidation, "Email is required")
	}
	if len(in.Password) < minPasswordLength {
		return users.User{}, apierr.Newf(apierr.ErrValidation, "Password must be at least %d characters", minPasswordLength)
	}

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return users.User{}, err
	}
	if taken {
		return users.User{}, apierr.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := users.User{
		Email:          email,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsCreator:      in.IsCreator,
	}

	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		return s.registerWithUsername(ctx, user, strings.TrimSpace(*in.Username))
	}
	return s.registerWithGeneratedUsername(ctx, user)
}

func (s *Service) registerWithUsername(ctx context.Context, user users.User, username string) (users.User, error) {
	if !users.IsValidUsername(username) {
		return users.User{}, apierr.New(apierr.ErrValidation, "Username must be 3-50 letters, digits or underscores")
	}
	taken, err := s.usernameTaken(ctx, username)
	if err != nil {
		return users.User{}, err
	}
	if taken {
		return users.User{}, apierr.ErrDuplicateUsername
	}

	user.Username = username
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if s.isDuplicate(ctx, err, user) {
			return users.User{}, s.duplicateCause(ctx, user.Email)
		}
		return users.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// registerWithGeneratedUsername tries the email-derived base first, then
// random suffixes. An insert that loses a race on the unique index retries.
func (s *Service) registerWithGeneratedUsername(ctx context.Context, user users.User) (users.User, error) {
	base := users.UsernameBase(user.Email)

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate := users.UsernameCandidate(base, attempt, rand.Intn(10000))

		taken, err := s.usernameTaken(ctx, candidate)
		if err != nil {
			return users.User{}, err
		}
		if taken {
			continue
		}

		u := user
		u.Username = candidate
		err = s.db.WithContext(ctx).Create(&u).Error
		if err == nil {
			return u, nil
		}
		if !s.isDuplicate(ctx, err, u) {
			return users.User{}, fmt.Errorf("create user: %w", err)
		}
		if cause := s.duplicateCause(ctx, u.Email); errors.Is(cause, apierr.ErrDuplicateEmail) {
			return users.User{}, cause
		}
	}

	s.logger.Warn("username generation exhausted", "base", base)
	return users.User{}, apierr.New(apierr.ErrConflict, "Could not allocate a username, please choose one")
}

// isDuplicate reports whether a failed insert lost a race on one of the
// unique columns.
func (s *Service) isDuplicate(ctx context.Context, err error, u users.User) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if taken, _ := s.emailTaken(ctx, u.Email); taken {
		return true
	}
	taken, _ := s.usernameTaken(ctx, u.Username)
	return taken
}

// duplicateCause tells a lost email race apart from a lost username race.
func (s *Service) duplicateCause(ctx context.Context, email string) error {
	if taken, err := s.emailTaken(ctx, email); err == nil && taken {
		return apierr.ErrDuplicateEmail
	}
	return apierr.ErrDuplicateUsername
}

func (s *Service) emailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&users.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func (s *Service) usernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&users.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

// Authenticate checks a password against the stored hash. Unknown emails and
// wrong passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return users.User{}, apierr.ErrInvalidCredentials
		}
		return users.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return users.User{}, apierr.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	if !user.IsActive {
		return Token{}, apierr.New(apierr.ErrValidation, "Inactive user")
	}
	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: access, TokenType: "bearer"}, nil
}

// CurrentUser resolves a bearer token to an active user.
func (s *Service) CurrentUser(ctx context.Context, token string) (users.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return users.User{}, err
	}
	user, err := s.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apierr.ErrNotFound) {
			return users.User{}, apierr.ErrInvalidToken
		}
		return users.User{}, err
	}
	if !user.IsActive {
		return users.User{}, apierr.New(apierr.ErrValidation, "Inactive user")
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (users.User, error) {
	var user users.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return users.User{}, apierr.New(apierr.ErrNotFound, "User not found")
		}
		return users.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// BecomeCreator sets the creator flag. Calling it twice is harmless.
func (s *Service) BecomeCreator(ctx context.Context, userID string) (users.User, error) {
	res := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Update("is_creator", true)
	if res.Error != nil {
		return users.User{}, fmt.Errorf("mark creator: %w", res.Error)
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	s.logger.Info("user became creator", "user_id", userID)
	return user, nil
}
