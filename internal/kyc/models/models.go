package models

import (
	"encoding/json"
	"time"

	id "vaultly/pkg/domain"
	dErrors "vaultly/pkg/domain-errors"
)

// KYCThreshold is the purchase amount (in rupees) at and above which an
// account must be verified.
const KYCThreshold int64 = 1000

// UnverifiedPurchaseLimit is the fixed ceiling for unverified accounts.
const UnverifiedPurchaseLimit int64 = 999

// PurchaseLimit is either a finite rupee ceiling or unlimited. Verified
// accounts are unlimited; unverified accounts carry the fixed ceiling.
type PurchaseLimit struct {
	unlimited bool
	amount    int64
}

func LimitOf(amount int64) PurchaseLimit { return PurchaseLimit{amount: amount} }
func Unlimited() PurchaseLimit           { return PurchaseLimit{unlimited: true} }

func (l PurchaseLimit) IsUnlimited() bool { return l.unlimited }

// Amount returns the finite ceiling; only meaningful when not unlimited.
func (l PurchaseLimit) Amount() int64 { return l.amount }

func (l PurchaseLimit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(l.amount)
}

func (l *PurchaseLimit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unlimited" {
			return dErrors.New(dErrors.CodeInvalidInput, "purchase limit must be a number or \"unlimited\"")
		}
		*l = Unlimited()
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = LimitOf(n)
	return nil
}

// KYCStatus is the verification state of one account. It is a closed variant:
// either unverified, or verified with a PAN, the provider-attested name and a
// verification time. Construct values through Unverified or NewVerified so a
// "verified without PAN" state cannot exist.
type KYCStatus struct {
	verified     bool
	pan          id.PAN
	verifiedName string
	verifiedAt   time.Time
}

// Unverified is the default state for any account without a record.
func Unverified() KYCStatus { return KYCStatus{} }

// NewVerified builds a verified status. The name comes from the verification
// provider's response, never from user input.
func NewVerified(pan id.PAN, verifiedName string, verifiedAt time.Time) (KYCStatus, error) {
	if pan == "" {
		return KYCStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "verified status requires a PAN")
	}
	if verifiedAt.IsZero() {
		return KYCStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "verified status requires a verification time")
	}
	return KYCStatus{
		verified:     true,
		pan:          pan,
		verifiedName: verifiedName,
		verifiedAt:   verifiedAt,
	}, nil
}

func (s KYCStatus) IsVerified() bool { return s.verified }

// PAN returns the verified PAN; ok is false for unverified accounts.
func (s KYCStatus) PAN() (id.PAN, bool) { return s.pan, s.verified }

// VerifiedName returns the provider-attested holder name.
func (s KYCStatus) VerifiedName() (string, bool) { return s.verifiedName, s.verified }

// VerifiedAt returns when verification succeeded.
func (s KYCStatus) VerifiedAt() (time.Time, bool) { return s.verifiedAt, s.verified }

// MaxPurchaseLimit derives the ceiling from the verification state: unlimited
// exactly when verified, the fixed unverified ceiling otherwise.
func (s KYCStatus) MaxPurchaseLimit() PurchaseLimit {
	if s.verified {
		return Unlimited()
	}
	return LimitOf(UnverifiedPurchaseLimit)
}

// StatusPayload is the wire form of KYCStatus used by handlers and the
// persistence layers.
type StatusPayload struct {
	IsVerified       bool          `json:"is_verified"`
	PANNumber        string        `json:"pan_number,omitempty"`
	VerifiedName     string        `json:"verified_name,omitempty"`
	VerificationDate *time.Time    `json:"verification_date,omitempty"`
	MaxPurchaseLimit PurchaseLimit `json:"max_purchase_limit"`
}

// Payload converts a status to its wire form.
func (s KYCStatus) Payload() StatusPayload {
	payload := StatusPayload{
		IsVerified:       s.verified,
		MaxPurchaseLimit: s.MaxPurchaseLimit(),
	}
	if s.verified {
		payload.PANNumber = s.pan.String()
		payload.VerifiedName = s.verifiedName
		verifiedAt := s.verifiedAt
		payload.VerificationDate = &verifiedAt
	}
	return payload
}

func (s KYCStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Payload())
}

// StatusFromPayload rebuilds a KYCStatus from its wire form, re-validating
// the variant invariants since payloads cross trust boundaries (cache rows,
// store rows).
func StatusFromPayload(p StatusPayload) (KYCStatus, error) {
	if !p.IsVerified {
		return Unverified(), nil
	}
	pan, err := id.ParsePAN(p.PANNumber)
	if err != nil {
		return KYCStatus{}, err
	}
	if p.VerificationDate == nil {
		return KYCStatus{}, dErrors.New(dErrors.CodeInvariantViolation, "verified payload missing verification date")
	}
	return NewVerified(pan, p.VerifiedName, *p.VerificationDate)
}
