package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type memoryTokenRepo struct {
	tokens map[string]AccessToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]AccessToken)}
}

func (r *memoryTokenRepo) GetToken(ctx context.Context, id string) (*AccessToken, error) {
	token, ok := r.tokens[id]
	if !ok {
		return nil, nil
	}
	token.CarrierName = "Test Carrier"
	return &token, nil
}

func (r *memoryTokenRepo) CreateToken(ctx context.Context, token AccessToken) error {
	r.tokens[token.ID] = token
	return nil
}

func TestIssueAndVerify(t *testing.T) {
	repo := newMemoryTokenRepo()
	service := NewService(repo)
	ctx := context.Background()

	plain, err := service.Issue(ctx, "carrier-1", nil)
	require.NoError(t, err)
	require.Contains(t, plain, ".")

	carrier, err := service.Verify(ctx, plain)
	require.NoError(t, err)
	require.Equal(t, "carrier-1", carrier.ID)
}

func TestVerifyRejectsBadCredentials(t *testing.T) {
	repo := newMemoryTokenRepo()
	service := NewService(repo)
	ctx := context.Background()

	plain, err := service.Issue(ctx, "carrier-1", nil)
	require.NoError(t, err)

	_, err = service.Verify(ctx, plain+"tampered")
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = service.Verify(ctx, "no-separator")
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = service.Verify(ctx, "unknown-id.secret")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	repo := newMemoryTokenRepo()
	service := NewService(repo)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	plain, err := service.Issue(ctx, "carrier-1", &past)
	require.NoError(t, err)

	_, err = service.Verify(ctx, plain)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
