// Package auth issues and verifies carrier-scoped API access tokens. A token
// travels as "<token id>.<secret>"; only a bcrypt hash of the secret is stored.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// AccessToken is a stored API credential.
type AccessToken struct {
	ID          string
	CarrierID   string
	CarrierName string
	SecretHash  []byte
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// RepositoryPort defines data access for access tokens.
type RepositoryPort interface {
	GetToken(ctx context.Context, id string) (*AccessToken, error)
	CreateToken(ctx context.Context, token AccessToken) error
}

// Service verifies bearer tokens and resolves the owning carrier.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Issue creates a token for a carrier and returns the plaintext credential.
// The plaintext is not recoverable afterwards.
func (s *Service) Issue(ctx context.Context, carrierID string, expiresAt *time.Time) (string, error) {
	secretBytes := make([]byte, 24)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("auth: generate secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash secret: %w", err)
	}

	token := AccessToken{
		ID:         uuid.NewString(),
		CarrierID:  carrierID,
		SecretHash: hash,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return "", err
	}
	return token.ID + "." + secret, nil
}

// Verify resolves a plaintext bearer credential to its carrier.
func (s *Service) Verify(ctx context.Context, plain string) (shared.Carrier, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(plain), ".")
	if !ok || id == "" || secret == "" {
		return shared.Carrier{}, shared.ErrUnauthorized
	}

	token, err := s.repo.GetToken(ctx, id)
	if err != nil {
		return shared.Carrier{}, err
	}
	if token == nil {
		return shared.Carrier{}, shared.ErrUnauthorized
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return shared.Carrier{}, shared.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword(token.SecretHash, []byte(secret)) != nil {
		return shared.Carrier{}, shared.ErrUnauthorized
	}

	return shared.Carrier{ID: token.CarrierID, Name: token.CarrierName}, nil
}
