// Package verifier talks to the external PAN verification provider. The
// client normalizes every expected remote failure into a tri-state Outcome so
// callers never see raw transport errors.
package verifier

import (
	"context"

	id "vaultly/pkg/domain"
)

// Kind classifies a verification outcome.
type Kind string

const (
	// KindValid means the provider confirmed the PAN.
	KindValid Kind = "valid"
	// KindInvalid means the provider answered and rejected the PAN.
	KindInvalid Kind = "invalid"
	// KindServiceError covers timeouts, non-2xx responses, malformed
	// payloads and credential failures. Retrying is a caller decision.
	KindServiceError Kind = "service_error"
)

// Outcome is the result of one remote validation attempt. Exactly one kind is
// set; NameOnRecord is populated only for KindValid.
type Outcome struct {
	Kind         Kind
	NameOnRecord string
	Reason       string
}

func Valid(nameOnRecord string) Outcome {
	return Outcome{Kind: KindValid, NameOnRecord: nameOnRecord}
}

func Invalid(reason string) Outcome {
	return Outcome{Kind: KindInvalid, Reason: reason}
}

func ServiceError(detail string) Outcome {
	return Outcome{Kind: KindServiceError, Reason: detail}
}

//go:generate mockgen -source=verifier.go -destination=mocks/mock_client.go -package=mocks

// Client validates a PAN against the verification provider. Implementations
// must not retry automatically and must not touch any store; they normalize
// every expected remote failure into an Outcome instead of returning errors.
type Client interface {
	Validate(ctx context.Context, pan id.PAN, holderName string) Outcome
}
