package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// BasicVerifier checks username and password against the users table.
// Every stored user is an operator, so a match yields an admin principal.
type BasicVerifier struct {
	users storage.UserRepository
}

func NewBasicVerifier(users storage.UserRepository) *BasicVerifier {
	return &BasicVerifier{users: users}
}

func (v *BasicVerifier) Verify(ctx context.Context, credentials string) (*Principal, error) {
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return nil, ErrInvalidCredentials
	}

	valid, err := v.users.ValidateUser(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}
	return &Principal{Subject: username, Admin: true}, nil
}

// EnsureAdmin creates the operator account on first start. An empty
// username disables seeding.
func EnsureAdmin(ctx context.Context, users storage.UserRepository, username, password string, logger *zap.Logger) error {
	if username == "" {
		return nil
	}

	exists, err := users.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if exists {
		logger.Info("admin user already exists", zap.String("username", username))
		return nil
	}
	if password == "" {
		return errors.New("admin password must be set to create the admin user")
	}

	if err := users.CreateUser(ctx, username, password); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	logger.Info("admin user created", zap.String("username", username))
	return nil
}
