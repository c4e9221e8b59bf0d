// Package service orchestrates PAN verification, status reads and the
// purchase gate over the verifier client, the registry and the status store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vaultly/internal/audit"
	"vaultly/internal/kyc/cache"
	"vaultly/internal/kyc/gate"
	"vaultly/internal/kyc/metrics"
	"vaultly/internal/kyc/models"
	"vaultly/internal/kyc/registry"
	"vaultly/internal/kyc/store"
	"vaultly/internal/kyc/verifier"
	id "vaultly/pkg/domain"
	dErrors "vaultly/pkg/domain-errors"
	"vaultly/pkg/platform/sentinel"
	"vaultly/pkg/requestcontext"
)

// AuditSink receives audit events from the verification flows.
type AuditSink interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates KYC verification and purchase gating.
type Service struct {
	statuses store.Store
	registry registry.Store
	cache    cache.Cache
	verifier verifier.Client

	logger  *slog.Logger
	auditor AuditSink
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditSink(sink AuditSink) Option {
	return func(s *Service) {
		s.auditor = sink
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(statuses store.Store, reg registry.Store, c cache.Cache, v verifier.Client, opts ...Option) *Service {
	s := &Service{
		statuses: statuses,
		registry: reg,
		cache:    c,
		verifier: v,
		logger:   slog.Default(),
		auditor:  audit.Discard{},
		tracer:   otel.Tracer("vaultly/internal/kyc/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerificationRequest carries the raw user submission. Parsing and
// normalization happen inside CompleteKYCVerification so callers cannot skip
// format validation.
type VerificationRequest struct {
	PANNumber  string
	HolderName string
}

// VerificationResult is the successful outcome of a verification attempt.
type VerificationResult struct {
	Status  models.KYCStatus
	Message string
}

// CompleteKYCVerification runs the full verification flow: format
// validation, an optimistic uniqueness check, the remote provider call, the
// registry claim and finally the status write. The registry claim happens
// before the status write so a verified status can never contradict the
// registry; the claim is conditional, which closes the race left open by the
// optimistic check.
func (s *Service) CompleteKYCVerification(ctx context.Context, accountID id.AccountID, req VerificationRequest) (VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, "kyc.verify")
	defer span.End()

	pan, err := id.ParsePAN(req.PANNumber)
	if err != nil {
		s.metrics.RecordVerification("format_rejected")
		span.SetAttributes(attribute.String("kyc.result", "format_rejected"))
		return VerificationResult{}, err
	}
	holderName, err := id.ParseHolderName(req.HolderName)
	if err != nil {
		s.metrics.RecordVerification("format_rejected")
		span.SetAttributes(attribute.String("kyc.result", "format_rejected"))
		return VerificationResult{}, err
	}
	span.SetAttributes(attribute.String("kyc.pan", pan.Masked()))

	// A verified account may re-verify, with the same PAN (idempotent,
	// account-recovery path) or a new one. The prior PAN is released only
	// after the new claim and status are in place.
	current, err := s.statuses.Get(ctx, accountID)
	if err != nil {
		return VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification status")
	}

	// Optimistic pre-check. Saves a provider call for obvious duplicates;
	// the authoritative check is the conditional claim below.
	unique, err := registry.CheckUniqueness(ctx, s.registry, pan, accountID)
	if err != nil {
		return VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check PAN registry")
	}
	if !unique.IsUnique {
		s.recordRejection(ctx, accountID, pan, "duplicate", "PAN already registered")
		return VerificationResult{}, dErrors.New(dErrors.CodeConflict, "PAN is already registered to another account")
	}

	outcome := s.validateRemote(ctx, pan, holderName)
	switch outcome.Kind {
	case verifier.KindServiceError:
		s.recordRejection(ctx, accountID, pan, "provider_error", outcome.Reason)
		return VerificationResult{}, dErrors.New(dErrors.CodeUnavailable, "PAN verification is temporarily unavailable, please try again")
	case verifier.KindInvalid:
		s.recordRejection(ctx, accountID, pan, "provider_rejected", outcome.Reason)
		return VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "PAN verification failed: "+outcome.Reason)
	}

	now := requestcontext.Now(ctx)

	if err := s.registry.Claim(ctx, pan, accountID, now); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.recordRejection(ctx, accountID, pan, "duplicate", "lost claim race")
			return VerificationResult{}, dErrors.New(dErrors.CodeConflict, "PAN is already registered to another account")
		}
		return VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register PAN")
	}

	status, err := models.NewVerified(pan, outcome.NameOnRecord, now)
	if err != nil {
		return VerificationResult{}, err
	}
	if err := s.statuses.Save(ctx, accountID, status); err != nil {
		// The claim stays: it belongs to this account and a retry will
		// pass the idempotent claim and reach the save again.
		s.metrics.RecordVerification("persistence_error")
		s.logger.Error("status save failed after registry claim",
			"account_id", accountID.String(), "pan", pan.Masked(), "error", err)
		return VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification status")
	}

	if previous, ok := current.PAN(); ok && previous != pan {
		if err := s.registry.Release(ctx, previous); err != nil {
			s.logger.Warn("previous PAN release failed",
				"account_id", accountID.String(), "pan", previous.Masked(), "error", err)
		}
	}

	if err := s.cache.Invalidate(ctx, accountID); err != nil {
		s.logger.Warn("status cache invalidation failed",
			"account_id", accountID.String(), "error", err)
	}

	s.metrics.RecordVerification("verified")
	span.SetAttributes(attribute.String("kyc.result", "verified"))
	s.emit(ctx, accountID, audit.ActionVerificationAttempt, "verified", pan.Masked(), "")
	s.logger.Info("kyc verification completed",
		"account_id", accountID.String(), "pan", pan.Masked())

	return VerificationResult{Status: status, Message: "KYC verification successful"}, nil
}

// GetUserKYCStatus serves the current status through the cache.
func (s *Service) GetUserKYCStatus(ctx context.Context, accountID id.AccountID) (models.KYCStatus, error) {
	status, err := s.cache.GetOrFetch(ctx, accountID, func(ctx context.Context) (models.KYCStatus, error) {
		return s.statuses.Get(ctx, accountID)
	})
	if err != nil {
		return models.KYCStatus{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification status")
	}
	return status, nil
}

// CanUserPurchase applies the purchase gate to the requested amount. The
// status snapshot the verdict was computed from is returned alongside so
// callers can render it without a second read.
func (s *Service) CanUserPurchase(ctx context.Context, accountID id.AccountID, amount int64) (gate.Decision, models.KYCStatus, error) {
	if amount <= 0 {
		return gate.Decision{}, models.KYCStatus{}, dErrors.New(dErrors.CodeInvalidInput, "purchase amount must be positive")
	}

	status, err := s.GetUserKYCStatus(ctx, accountID)
	if err != nil {
		return gate.Decision{}, models.KYCStatus{}, err
	}

	decision := gate.Evaluate(amount, status)
	if decision.CanPurchase {
		s.metrics.RecordGateDecision("allowed")
	} else {
		s.metrics.RecordGateDecision("requires_kyc")
	}
	return decision, status, nil
}

// ResetKYC returns an account to unverified and releases its registry claim.
// Operational tooling only; it is exposed behind the admin surface.
func (s *Service) ResetKYC(ctx context.Context, accountID id.AccountID) error {
	current, err := s.statuses.Get(ctx, accountID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification status")
	}

	maskedPAN := ""
	if pan, ok := current.PAN(); ok {
		maskedPAN = pan.Masked()
		if err := s.registry.Release(ctx, pan); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release PAN registration")
		}
	}

	if err := s.statuses.Reset(ctx, accountID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset verification status")
	}
	if err := s.cache.Invalidate(ctx, accountID); err != nil {
		s.logger.Warn("status cache invalidation failed",
			"account_id", accountID.String(), "error", err)
	}

	s.emit(ctx, accountID, audit.ActionStatusReset, "reset", maskedPAN, "")
	s.logger.Info("kyc status reset", "account_id", accountID.String())
	return nil
}

func (s *Service) validateRemote(ctx context.Context, pan id.PAN, holderName string) verifier.Outcome {
	ctx, span := s.tracer.Start(ctx, "kyc.provider.validate")
	defer span.End()

	outcome := s.verifier.Validate(ctx, pan, holderName)
	span.SetAttributes(attribute.String("kyc.provider.outcome", string(outcome.Kind)))
	return outcome
}

func (s *Service) recordRejection(ctx context.Context, accountID id.AccountID, pan id.PAN, result, reason string) {
	s.metrics.RecordVerification(result)
	s.emit(ctx, accountID, audit.ActionVerificationAttempt, result, pan.Masked(), reason)
}

func (s *Service) emit(ctx context.Context, accountID id.AccountID, action, outcome, maskedPAN, reason string) {
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		AccountID: accountID,
		Action:    action,
		Outcome:   outcome,
		MaskedPAN: maskedPAN,
		Reason:    reason,
		Device:    requestcontext.Device(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
