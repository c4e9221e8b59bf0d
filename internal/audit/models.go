package audit

import (
	"time"

	id "vaultly/pkg/domain"
)

// Actions recorded by the KYC flows.
const (
	ActionVerificationAttempt = "kyc.verification_attempt"
	ActionStatusReset         = "kyc.status_reset"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. PAN values must be
// masked before they reach an Event; the audit trail never stores a full PAN.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	AccountID id.AccountID `json:"account_id"`
	Action    string       `json:"action"`
	Outcome   string       `json:"outcome"`
	MaskedPAN string       `json:"masked_pan,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Device    string       `json:"device,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}
