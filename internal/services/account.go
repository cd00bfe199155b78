package services

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
)

// EchoPolicy decides which profile updates are copied into the session.
type EchoPolicy string

const (
	// EchoAlways overwrites the session with every successfully updated
	// user, whoever it is.
	EchoAlways EchoPolicy = "always"
	// EchoActiveOnly overwrites the session only when the updated email is
	// the session's own.
	EchoActiveOnly EchoPolicy = "active-only"
)

// AccountService implements register, profile and password operations on
// top of the user store and keeps the session in step with them.
type AccountService struct {
	store   *users.Store
	session *SessionManager
	echo    EchoPolicy
}

func NewAccountService(store *users.Store, session *SessionManager, echo EchoPolicy) *AccountService {
	if echo == "" {
		echo = EchoAlways
	}
	return &AccountService{store: store, session: session, echo: echo}
}

// Register adds u to the store. The email is trimmed and an empty role
// defaults to customer. It does not log the user in.
func (s *AccountService) Register(ctx context.Context, u models.User) (bool, error) {
	u.Email = common.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	return s.store.Register(ctx, u)
}

// UpdateProfile replaces the stored record with the same email by u. On
// success the session is overwritten with the record as stored, according
// to the echo policy.
func (s *AccountService) UpdateProfile(ctx context.Context, u models.User) (bool, error) {
	u.Email = common.NormalizeEmail(u.Email)
	stored, err := s.store.Replace(ctx, u)
	if err != nil || stored == nil {
		return false, err
	}

	if s.echo == EchoActiveOnly {
		cur := s.session.Current()
		if cur == nil || cur.Email != stored.Email {
			return true, nil
		}
	}
	if err := s.session.setSession(ctx, stored); err != nil {
		return true, err
	}
	return true, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, email, newPassword string) (bool, error) {
	return s.store.SetPassword(ctx, common.NormalizeEmail(email), newPassword)
}

// ValidateCurrentPassword checks password against a fresh read of the
// store. An unknown email is never valid.
func (s *AccountService) ValidateCurrentPassword(ctx context.Context, email, password string) (bool, error) {
	return s.store.VerifyPassword(ctx, common.NormalizeEmail(email), password)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.store.FindByEmail(ctx, common.NormalizeEmail(email))
}

// RemoveAccount deletes the account with email. When it was the active
// session the session is cleared too.
func (s *AccountService) RemoveAccount(ctx context.Context, email string) (bool, error) {
	email = common.NormalizeEmail(email)
	ok, err := s.store.Remove(ctx, email)
	if err != nil || !ok {
		return false, err
	}
	if cur := s.session.Current(); cur != nil && cur.Email == email {
		if err := s.session.Logout(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}
