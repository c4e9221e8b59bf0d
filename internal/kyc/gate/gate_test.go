package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

func verified(t *testing.T) models.KYCStatus {
	t.Helper()
	pan, err := id.ParsePAN("ABCDE1234F")
	require.NoError(t, err)
	status, err := models.NewVerified(pan, "Asha Rao", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return status
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		verified    bool
		canPurchase bool
		requiresKYC bool
	}{
		{name: "small amount unverified", amount: 500, canPurchase: true},
		{name: "one below threshold unverified", amount: 999, canPurchase: true},
		{name: "threshold unverified", amount: 1000, requiresKYC: true},
		{name: "above threshold unverified", amount: 50000, requiresKYC: true},
		{name: "small amount verified", amount: 500, verified: true, canPurchase: true},
		{name: "threshold verified", amount: 1000, verified: true, canPurchase: true},
		{name: "large amount verified", amount: 10_000_000, verified: true, canPurchase: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := models.Unverified()
			if tt.verified {
				status = verified(t)
			}

			d := Evaluate(tt.amount, status)
			assert.Equal(t, tt.canPurchase, d.CanPurchase)
			assert.Equal(t, tt.requiresKYC, d.RequiresKYC)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestEvaluateVerdictsAreExclusive(t *testing.T) {
	for _, amount := range []int64{1, 999, 1000, 100000} {
		for _, status := range []models.KYCStatus{models.Unverified(), verified(t)} {
			d := Evaluate(amount, status)
			assert.NotEqual(t, d.CanPurchase, d.RequiresKYC,
				"exactly one of can_purchase and requires_kyc must be set")
		}
	}
}

func TestEvaluateMonotonicInAmount(t *testing.T) {
	// Once an unverified buyer is blocked at some amount, every larger
	// amount is blocked too.
	blocked := false
	for amount := int64(1); amount <= 2000; amount++ {
		d := Evaluate(amount, models.Unverified())
		if blocked {
			assert.True(t, d.RequiresKYC, "amount %d", amount)
		}
		if d.RequiresKYC {
			blocked = true
		}
	}
	assert.True(t, blocked)
}
