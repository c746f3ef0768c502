package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"setlist/internal/store"
)

// ensureBootstrapAdmin creates the initial admin account from the
// environment, if configured. An already existing account is not an error.
func ensureBootstrapAdmin(ctx context.Context, cfg Config, dataStore *store.Store) error {
	if cfg.BootstrapAdminUsername == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	if _, err := dataStore.CreateAdmin(ctx, cfg.BootstrapAdminUsername, string(hash), nil, nil); err != nil &&
		!errors.Is(err, store.ErrAdminExists) {
		return fmt.Errorf("bootstrap admin user: %w", err)
	}

	return nil
}
