package server

import (
	"context"
	"errors"

	"github.com/answersai/backend/pkg/auth"
	"github.com/answersai/backend/pkg/store"
)

// storeAccounts adapts the user store to the auth package's lookup
// interface.
type storeAccounts struct {
	users UserStore
}

// NewAccountLookup wraps a UserStore for use by the authenticator.
func NewAccountLookup(users UserStore) auth.AccountLookup {
	return &storeAccounts{users: users}
}

func (a *storeAccounts) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Account{ID: user.ID, Email: user.Email}, nil
}
