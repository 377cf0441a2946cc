// Package auth handles accounts and sessions: registration, login with
// bcrypt verification, signed session tokens tracked in a per-user active
// set, and the request guard that resolves bearer tokens to users.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/user/taskman-go/apperror"
	"github.com/user/taskman-go/email"
)

// loginFailedMsg is the single message for every credential failure. The
// caller can never tell a missing account from a wrong password.
const loginFailedMsg = "unable to login"

// AuthService implements registration, login and session revocation on
// top of a UserStore.
type AuthService struct {
	store  UserStore
	issuer *TokenIssuer
	mailer email.Mailer
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(store UserStore, issuer *TokenIssuer, mailer email.Mailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  store,
		issuer: issuer,
		mailer: mailer,
		logger: logger,
	}
}

// Register validates the request, stores the user with a hashed password
// and opens a first session. The welcome mail is fire and forget.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}
	req.Email = NormalizeEmail(req.Email)
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := ValidateAge(req.Age); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Age:          req.Age,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperror.NewValidationError("email already in use", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.mailer.SendWelcome(user.Email, user.Name)

	return &SessionResponse{User: user, Token: token}, nil
}

// Login verifies credentials and opens a new session. Unknown emails burn
// a dummy bcrypt comparison so the failure is indistinguishable from a
// wrong password in both kind and latency.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.store.UserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			compareDummy(req.Password)
			return nil, apperror.NewAuthError(loginFailedMsg, nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperror.NewAuthError(loginFailedMsg, nil)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{User: user, Token: token}, nil
}

// Logout revokes exactly the presented session token. The token's
// signature stays valid but it no longer authenticates.
func (s *AuthService) Logout(ctx context.Context, userID int64, token string) error {
	if err := s.store.RemoveToken(ctx, userID, token); err != nil {
		return apperror.NewDatabaseError("failed to revoke token", err)
	}
	return nil
}

// LogoutAll revokes every session the user has open.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.store.RemoveAllTokens(ctx, userID); err != nil {
		return apperror.NewDatabaseError("failed to revoke tokens", err)
	}
	return nil
}

// openSession mints a token and records it in the user's active set.
func (s *AuthService) openSession(ctx context.Context, userID int64) (string, error) {
	token, err := s.issuer.Issue(userID)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	if err := s.store.AddToken(ctx, userID, token); err != nil {
		return "", apperror.NewDatabaseError("failed to store token", err)
	}
	return token, nil
}
