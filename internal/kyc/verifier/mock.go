package verifier

import (
	"context"
	"time"

	id "vaultly/pkg/domain"
)

// MockClient is a deterministic stand-in for the provider, used in local
// development and wiring tests. A configurable latency mimics real-world
// calls; PANs ending in 'Z' are rejected so both paths are reachable.
type MockClient struct {
	Latency time.Duration
}

func (c MockClient) Validate(ctx context.Context, pan id.PAN, holderName string) Outcome {
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return ServiceError("mock provider: " + ctx.Err().Error())
		}
	}
	if pan[len(pan)-1] == 'Z' {
		return Invalid("PAN not found on record")
	}
	name := holderName
	if name == "" {
		name = "Sample Holder"
	}
	return Valid(name)
}
