package service

import (
	"context"
	"errors"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/belugagoods/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrRegistrationClosed    = errors.New("registration is not available with this auth provider")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
)

const (
	mockUsername = "admin"
	mockPassword = "12345"
	mockPoints   = 50000
)

type Credentials struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	User   *model.User     `json:"user"`
	Tokens *util.TokenPair `json:"tokens"`
}

// Authenticator verifies credentials and resolves token subjects back to users.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Session, error)
	Lookup(ctx context.Context, userID uint) (*model.User, error)
}

// Registrar is implemented by authenticators that can create accounts.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) (*Session, error)
}

// TokenRevoker records logged-out tokens until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiry time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type TokenIssuer struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

func (i TokenIssuer) Issue(user *model.User) (*util.TokenPair, error) {
	return util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role()),
		i.Secret,
		i.AccessExpiry,
		i.RefreshExpiry,
	)
}

func (i TokenIssuer) session(user *model.User) (*Session, error) {
	tokens, err := i.Issue(user)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return &Session{User: user, Tokens: tokens}, nil
}

// MockAuthenticator accepts a single fixed account. When users is set the
// account is provisioned in the database on first login so orders can
// reference it.
type MockAuthenticator struct {
	users  repository.UserRepository
	issuer TokenIssuer
}

func NewMockAuthenticator(users repository.UserRepository, issuer TokenIssuer) *MockAuthenticator {
	return &MockAuthenticator{users: users, issuer: issuer}
}

func mockUser() *model.User {
	return &model.User{
		ID:       1,
		Username: mockUsername,
		Email:    "admin@beluga.local",
		Points:   mockPoints,
	}
}

func (a *MockAuthenticator) Authenticate(_ context.Context, creds Credentials) (*Session, error) {
	if creds.Username != mockUsername || !util.SecretEqual(mockPassword, creds.Password) {
		logger.Warn("Mock login rejected", map[string]interface{}{
			"username": creds.Username,
		})
		return nil, ErrInvalidCredentials
	}

	user, err := a.provision()
	if err != nil {
		return nil, err
	}
	return a.issuer.session(user)
}

func (a *MockAuthenticator) provision() (*model.User, error) {
	if a.users == nil {
		return mockUser(), nil
	}

	user, err := a.users.FindByUsername(mockUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(mockPassword)
	if err != nil {
		return nil, err
	}
	user = mockUser()
	user.ID = 0
	user.PasswordHash = hash
	if err := a.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *MockAuthenticator) Lookup(_ context.Context, userID uint) (*model.User, error) {
	if a.users == nil {
		if userID != mockUser().ID {
			return nil, ErrUserNotFound
		}
		return mockUser(), nil
	}
	return lookupUser(a.users, userID)
}

type DatabaseAuthenticator struct {
	users  repository.UserRepository
	issuer TokenIssuer
}

func NewDatabaseAuthenticator(users repository.UserRepository, issuer TokenIssuer) *DatabaseAuthenticator {
	return &DatabaseAuthenticator{users: users, issuer: issuer}
}

func (a *DatabaseAuthenticator) Authenticate(_ context.Context, creds Credentials) (*Session, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": creds.Username,
	})

	user, err := a.users.FindByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": creds.Username,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": creds.Username,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, creds.Password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return a.issuer.session(user)
}

func (a *DatabaseAuthenticator) Register(_ context.Context, username, email, password string) (*Session, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"email":    email,
	})

	if _, err := a.users.FindByUsername(username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := a.users.FindByEmail(email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := a.users.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return a.issuer.session(user)
}

func (a *DatabaseAuthenticator) Lookup(_ context.Context, userID uint) (*model.User, error) {
	return lookupUser(a.users, userID)
}

func lookupUser(users repository.UserRepository, userID uint) (*model.User, error) {
	user, err := users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type AuthService interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, username, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type authService struct {
	authenticator Authenticator
	issuer        TokenIssuer
	revoker       TokenRevoker
}

// NewAuthService wires an authenticator. revoker may be nil, in which case
// logout only discards the token on the client.
func NewAuthService(authenticator Authenticator, issuer TokenIssuer, revoker TokenRevoker) AuthService {
	return &authService{
		authenticator: authenticator,
		issuer:        issuer,
		revoker:       revoker,
	}
}

func (s *authService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	return s.authenticator.Authenticate(ctx, creds)
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	registrar, ok := s.authenticator.(Registrar)
	if !ok {
		return nil, ErrRegistrationClosed
	}
	return registrar.Register(ctx, username, email, password)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := util.ValidateToken(refreshToken, s.issuer.Secret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.authenticator.Lookup(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// refresh token 은 1회용
	if s.revoker != nil && claims.ExpiresAt != nil {
		if err := s.revoker.Revoke(ctx, refreshToken, time.Until(claims.ExpiresAt.Time)); err != nil {
			logger.Error("Failed to revoke used refresh token", err)
			return nil, err
		}
	}
	return s.issuer.session(user)
}

func (s *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, token, time.Until(expiresAt)); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	return nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	return s.authenticator.Lookup(ctx, id)
}
