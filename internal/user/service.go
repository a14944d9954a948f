// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/storefront/internal/auth"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/events"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, events: publisher}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	return toAccountInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.AccountInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(account.Email),
		PasswordHash: account.PasswordHash,
		UserName:     account.UserName,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Role:         RoleUser,
	}

	if err := s.repo.CreateWithCart(ctx, user); err != nil {
		return nil, err
	}

	s.emitCreated(ctx, user)

	return toAccountInfo(user), nil
}

// CreateAdmin provisions an administrator with a cart. Used by storectl.
func (s *Service) CreateAdmin(
	ctx context.Context,
	email, userName, password string,
) (*User, error) {
	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		UserName:     userName,
		Role:         RoleAdmin,
	}

	if err := s.repo.CreateWithCart(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// FindOrCreateByGoogle resolves a Google identity by subject, then by
// email (linking the subject), and otherwise creates a new account.
func (s *Service) FindOrCreateByGoogle(
	ctx context.Context,
	identity auth.GoogleIdentity,
) (*auth.AccountInfo, error) {
	ctx, span := core.StartSpan(ctx, "user.FindOrCreateByGoogle")
	defer span.End()

	user, err := s.repo.GetByGoogleID(ctx, identity.Subject)
	if err == nil {
		return toAccountInfo(user), nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	user, err = s.repo.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if err := s.repo.LinkGoogle(ctx, user.ID, identity.Subject, identity.Picture); err != nil {
			return nil, err
		}
		span.AddEvent("google account linked")
		return toAccountInfo(user), nil
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	googleID := identity.Subject
	user = &User{
		ID:        uuid.New().String(),
		Email:     identity.Email,
		UserName:  googleUserName(identity),
		FirstName: identity.GivenName,
		LastName:  identity.FamilyName,
		GoogleID:  &googleID,
		Image:     identity.Picture,
		Role:      RoleUser,
	}

	if err := s.repo.CreateWithCart(ctx, user); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.emitCreated(ctx, user)

	return toAccountInfo(user), nil
}

// ResolveAccount implements middleware.AccountResolver.
func (s *Service) ResolveAccount(
	ctx context.Context,
	id string,
) (*middleware.Principal, error) {
	if !core.IsValidID(id) {
		return nil, fmt.Errorf("resolve account: %w", core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		IsBanned: user.IsBanned,
	}, nil
}

func (s *Service) GetUser(
	ctx context.Context,
	actor *middleware.Principal,
	id string,
) (*User, error) {
	if err := authorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	actor *middleware.Principal,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	if err := authorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserName != nil {
		user.UserName = *req.UserName
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Image != nil {
		user.Image = *req.Image
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(
	ctx context.Context,
	actor *middleware.Principal,
	id string,
) error {
	if err := authorizeSelfOrAdmin(actor, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// SetBanned toggles the banned flag. Administrators cannot ban
// themselves.
func (s *Service) SetBanned(
	ctx context.Context,
	actor *middleware.Principal,
	id string,
	banned bool,
) (*User, error) {
	if actor != nil && actor.ID == id && banned {
		return nil, fmt.Errorf("ban self: %w", core.ErrInvalidInput)
	}

	user, err := s.repo.SetBanned(ctx, id, banned)
	if err != nil {
		return nil, err
	}

	evtType := events.AccountUnbanned
	if banned {
		evtType = events.AccountBanned
	}
	events.Emit(ctx, s.events, events.New(evtType, user.ID).
		WithRecipient(user.Email, user.UserName))

	return user, nil
}

// Promote grants the admin role to the account with the given email.
func (s *Service) Promote(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, user.ID, RoleAdmin); err != nil {
		return nil, err
	}

	user.Role = RoleAdmin
	return user, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) emitCreated(ctx context.Context, user *User) {
	events.Emit(ctx, s.events, events.New(events.AccountCreated, user.ID).
		WithRecipient(user.Email, user.UserName))
}

func authorizeSelfOrAdmin(actor *middleware.Principal, targetID string) error {
	if actor == nil {
		return fmt.Errorf("authorize: %w", core.ErrUnauthorized)
	}
	if actor.ID == targetID || actor.IsAdmin() {
		return nil
	}
	return fmt.Errorf("authorize: %w", core.ErrForbidden)
}

func googleUserName(identity auth.GoogleIdentity) string {
	name := strings.TrimSpace(identity.GivenName + identity.FamilyName)
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}
	if len(name) > 20 {
		name = name[:20]
	}
	return name
}

func toAccountInfo(u *User) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:           u.ID,
		UserName:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsBanned:     u.IsBanned,
	}
}

var (
	_ auth.UserProvider          = (*Service)(nil)
	_ middleware.AccountResolver = (*Service)(nil)
)
