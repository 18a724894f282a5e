package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvisoryLockIDIsStable(t *testing.T) {
	require.Equal(t,
		AdvisoryLockID("invoices", "carrier-1"),
		AdvisoryLockID("invoices", "carrier-1"))
}

func TestAdvisoryLockIDSeparatesScopesAndKeys(t *testing.T) {
	base := AdvisoryLockID("invoices", "carrier-1")
	require.NotEqual(t, base, AdvisoryLockID("invoices", "carrier-2"))
	require.NotEqual(t, base, AdvisoryLockID("driver_invoices", "carrier-1"))

	// The separator keeps scope and key from bleeding into each other.
	require.NotEqual(t, AdvisoryLockID("ab", "c"), AdvisoryLockID("a", "bc"))
}
