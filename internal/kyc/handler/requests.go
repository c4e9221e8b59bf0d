package handler

import "vaultly/internal/kyc/models"

// VerifyRequest is the body of POST /kyc/verify. The name is optional; when
// present the provider cross-checks it against the name on record.
type VerifyRequest struct {
	PAN  string `json:"pan"`
	Name string `json:"name,omitempty"`
}

// VerifyResponse is the body of a successful POST /kyc/verify.
type VerifyResponse struct {
	Success   bool                 `json:"success"`
	Message   string               `json:"message"`
	KYCStatus models.StatusPayload `json:"kyc_status"`
}

// EligibilityRequest is the body of POST /purchase/eligibility. Amount is in
// whole rupees.
type EligibilityRequest struct {
	Amount int64 `json:"amount"`
}

// EligibilityResponse is the body of POST /purchase/eligibility. It carries
// the status snapshot the verdict was computed from.
type EligibilityResponse struct {
	CanPurchase bool                 `json:"can_purchase"`
	RequiresKYC bool                 `json:"requires_kyc"`
	Message     string               `json:"message"`
	KYCStatus   models.StatusPayload `json:"kyc_status"`
}
