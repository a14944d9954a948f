// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

var ErrInvalidCredentials = fmt.Errorf(
	"invalid email or password: %w",
	core.ErrNotFound,
)

type AccountInfo struct {
	ID           string
	UserName     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	IsBanned     bool
}

type NewAccount struct {
	UserName     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

// UserProvider is the account store as seen by authentication. Create
// must provision the account's cart in the same statement.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*AccountInfo, error)
	Create(ctx context.Context, account NewAccount) (*AccountInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	FindOrCreateByGoogle(
		ctx context.Context,
		identity GoogleIdentity,
	) (*AccountInfo, error)
}

type Session struct {
	Account *AccountInfo
	Token   *IssuedToken
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	google       IdentityVerifier
	denylist     Denylist
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	google IdentityVerifier,
	denylist Denylist,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		google:       google,
		denylist:     denylist,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()

	user, err := s.userProvider.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, fmt.Errorf("login: %w", core.ErrAccountBanned)
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.newSession(user)
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.Signup")
	defer span.End()

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewAccount{
		UserName:     req.UserName,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	return s.newSession(user)
}

// GoogleAuthenticate exchanges a Google ID token for a storefront token,
// creating or linking the account on first use.
func (s *Service) GoogleAuthenticate(
	ctx context.Context,
	idToken string,
) (*Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.GoogleAuthenticate")
	defer span.End()

	if s.google == nil {
		return nil, fmt.Errorf("google login disabled: %w", core.ErrUnauthorized)
	}

	identity, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify google token: %w", err)
	}

	identity.Email = normalizeEmail(identity.Email)

	user, err := s.userProvider.FindOrCreateByGoogle(ctx, *identity)
	if err != nil {
		return nil, fmt.Errorf("find or create google account: %w", err)
	}

	if user.IsBanned {
		return nil, fmt.Errorf("google login: %w", core.ErrAccountBanned)
	}

	return s.newSession(user)
}

// Logout denylists the presented token until its natural expiry.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil || claims.TokenID == "" {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// VerifyAccessToken implements middleware.TokenVerifier. A denylist
// lookup failure is logged and the token accepted.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		slog.WarnContext(ctx, "denylist lookup failed",
			"token_id", claims.TokenID,
			"error", err,
		)
		return claims, nil
	}

	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) newSession(user *AccountInfo) (*Session, error) {
	token, err := s.jwt.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{Account: user, Token: token}, nil
}

func (sess *Session) Response() AuthResponse {
	return AuthResponse{
		ID:        sess.Account.ID,
		UserName:  sess.Account.UserName,
		FirstName: sess.Account.FirstName,
		LastName:  sess.Account.LastName,
		Email:     sess.Account.Email,
		Role:      sess.Account.Role,
		IsBanned:  sess.Account.IsBanned,
		Token:     sess.Token.Token,
	}
}
