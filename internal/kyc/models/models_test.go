package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vaultly/pkg/domain"
)

func mustPAN(t *testing.T, raw string) id.PAN {
	t.Helper()
	pan, err := id.ParsePAN(raw)
	require.NoError(t, err)
	return pan
}

func TestKYCStatusVariantInvariants(t *testing.T) {
	t.Run("unverified has fixed ceiling and no PAN", func(t *testing.T) {
		status := Unverified()
		assert.False(t, status.IsVerified())

		_, ok := status.PAN()
		assert.False(t, ok)

		limit := status.MaxPurchaseLimit()
		assert.False(t, limit.IsUnlimited())
		assert.Equal(t, UnverifiedPurchaseLimit, limit.Amount())
	})

	t.Run("verified is unlimited and carries PAN", func(t *testing.T) {
		now := time.Now()
		status, err := NewVerified(mustPAN(t, "EYIPA5469P"), "Alice", now)
		require.NoError(t, err)

		assert.True(t, status.IsVerified())
		assert.True(t, status.MaxPurchaseLimit().IsUnlimited())

		pan, ok := status.PAN()
		require.True(t, ok)
		assert.Equal(t, "EYIPA5469P", pan.String())

		verifiedAt, ok := status.VerifiedAt()
		require.True(t, ok)
		assert.Equal(t, now, verifiedAt)
	})

	t.Run("verified without PAN is unrepresentable", func(t *testing.T) {
		_, err := NewVerified("", "Alice", time.Now())
		require.Error(t, err)
	})

	t.Run("verified without timestamp is unrepresentable", func(t *testing.T) {
		_, err := NewVerified(mustPAN(t, "EYIPA5469P"), "Alice", time.Time{})
		require.Error(t, err)
	})
}

func TestPurchaseLimitJSON(t *testing.T) {
	t.Run("unlimited marshals as string", func(t *testing.T) {
		data, err := json.Marshal(Unlimited())
		require.NoError(t, err)
		assert.Equal(t, `"unlimited"`, string(data))
	})

	t.Run("finite marshals as number", func(t *testing.T) {
		data, err := json.Marshal(LimitOf(999))
		require.NoError(t, err)
		assert.Equal(t, `999`, string(data))
	})

	t.Run("round trips both forms", func(t *testing.T) {
		for _, raw := range []string{`"unlimited"`, `999`} {
			var limit PurchaseLimit
			require.NoError(t, json.Unmarshal([]byte(raw), &limit))
			again, err := json.Marshal(limit)
			require.NoError(t, err)
			assert.Equal(t, raw, string(again))
		}
	})

	t.Run("rejects other strings", func(t *testing.T) {
		var limit PurchaseLimit
		require.Error(t, json.Unmarshal([]byte(`"lots"`), &limit))
	})
}

func TestStatusPayloadRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	verified, err := NewVerified(mustPAN(t, "EYIPA5469P"), "Alice", now)
	require.NoError(t, err)

	for name, status := range map[string]KYCStatus{"verified": verified, "unverified": Unverified()} {
		t.Run(name, func(t *testing.T) {
			rebuilt, err := StatusFromPayload(status.Payload())
			require.NoError(t, err)
			assert.Equal(t, status, rebuilt)
		})
	}
}

func TestStatusFromPayloadRejectsIllegalStates(t *testing.T) {
	now := time.Now()

	t.Run("verified without PAN", func(t *testing.T) {
		_, err := StatusFromPayload(StatusPayload{IsVerified: true, VerificationDate: &now})
		require.Error(t, err)
	})

	t.Run("verified without date", func(t *testing.T) {
		_, err := StatusFromPayload(StatusPayload{IsVerified: true, PANNumber: "EYIPA5469P"})
		require.Error(t, err)
	})

	t.Run("verified with malformed PAN", func(t *testing.T) {
		_, err := StatusFromPayload(StatusPayload{IsVerified: true, PANNumber: "nope", VerificationDate: &now})
		require.Error(t, err)
	})
}
