// Package gate decides whether a purchase may proceed given the buyer's
// verification state. The rules are pure; callers supply the status and
// record metrics on the verdict.
package gate

import (
	"fmt"

	"vaultly/internal/kyc/models"
)

// Decision is the gate verdict for one purchase attempt.
type Decision struct {
	CanPurchase bool
	RequiresKYC bool
	Message     string
}

// Evaluate applies the purchase rules in order: amounts below the threshold
// are always allowed, verified accounts are never limited, and everything
// else requires verification first.
func Evaluate(amount int64, status models.KYCStatus) Decision {
	if amount < models.KYCThreshold {
		return Decision{CanPurchase: true, Message: "Purchase allowed"}
	}
	if status.IsVerified() {
		return Decision{CanPurchase: true, Message: "Purchase allowed"}
	}
	return Decision{
		RequiresKYC: true,
		Message:     fmt.Sprintf("KYC verification required for purchases of %d INR or more", models.KYCThreshold),
	}
}
