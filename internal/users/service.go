// Package users provisions internal users from messaging-platform
// identities and manages the default-currency preference.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dime/internal/core"
	"dime/internal/storage"
)

// ExternalIdentity is what the messaging adapter knows about a sender.
type ExternalIdentity struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// GetOrCreate resolves an external identity to an internal user, creating
// the user and the binding on first contact.
func (s *Service) GetOrCreate(ctx context.Context, identity ExternalIdentity) (*core.User, error) {
	user, err := s.store.GetUserByExternalID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup external identity: %w", err)
	}

	user = &core.User{Username: identity.Username}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	account := &core.ExternalAccount{
		ExternalID: identity.ID,
		UserID:     user.ID,
		Username:   identity.Username,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
	}
	if err := s.store.CreateExternalAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create external account: %w", err)
	}

	slog.InfoContext(ctx, "Provisioned new user",
		"user_id", user.ID,
		"external_id", identity.ID)

	return user, nil
}

// SetDefaultCurrency sets the user's default currency and returns the reply
// text. Unknown codes and missing users are ordinary outcomes, not errors.
func (s *Service) SetDefaultCurrency(ctx context.Context, user *core.User, code string) (string, error) {
	currency, err := s.store.GetCurrencyByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("Currency %s not found.", code), nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup currency: %w", err)
	}

	err = s.store.SetUserCurrency(ctx, user.ID, currency.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return "User not found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("set user currency: %w", err)
	}
	user.CurrencyID = currency.ID

	return fmt.Sprintf("Currency set to %s", currency.Code), nil
}

// DefaultCurrencyCode returns the user's default currency code, or "" when
// none is set.
func (s *Service) DefaultCurrencyCode(ctx context.Context, user *core.User) (string, error) {
	if !user.HasDefaultCurrency() {
		return "", nil
	}
	currency, err := s.store.GetCurrency(ctx, user.CurrencyID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup currency: %w", err)
	}
	return currency.Code, nil
}
