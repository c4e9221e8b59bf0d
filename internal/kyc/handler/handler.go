package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vaultly/internal/kyc/gate"
	"vaultly/internal/kyc/models"
	"vaultly/internal/kyc/service"
	id "vaultly/pkg/domain"
	dErrors "vaultly/pkg/domain-errors"
	"vaultly/pkg/platform/httputil"
	"vaultly/pkg/requestcontext"
)

// Service defines the KYC operations the handler exposes.
type Service interface {
	CompleteKYCVerification(ctx context.Context, accountID id.AccountID, req service.VerificationRequest) (service.VerificationResult, error)
	GetUserKYCStatus(ctx context.Context, accountID id.AccountID) (models.KYCStatus, error)
	CanUserPurchase(ctx context.Context, accountID id.AccountID, amount int64) (gate.Decision, models.KYCStatus, error)
	ResetKYC(ctx context.Context, accountID id.AccountID) error
}

// Handler wires KYC endpoints to the KYC service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a KYC handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated user-facing endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/verify", h.HandleVerify)
	r.Get("/kyc/status", h.HandleStatus)
	r.Post("/purchase/eligibility", h.HandleEligibility)
}

// RegisterAdmin mounts the operational endpoints. The caller is responsible
// for wrapping the router with admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Delete("/admin/kyc/{accountID}", h.HandleReset)
}

// HandleVerify handles POST /kyc/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	accountID, ok := h.authenticated(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeJSON[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.CompleteKYCVerification(ctx, accountID, service.VerificationRequest{
		PANNumber:  req.PAN,
		HolderName: req.Name,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "kyc verification rejected",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", accountID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "kyc verification handled",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", accountID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{
		Success:   true,
		Message:   result.Message,
		KYCStatus: result.Status.Payload(),
	})
}

// HandleStatus handles GET /kyc/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := h.authenticated(w, ctx)
	if !ok {
		return
	}

	status, err := h.service.GetUserKYCStatus(ctx, accountID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status.Payload())
}

// HandleEligibility handles POST /purchase/eligibility requests.
func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := h.authenticated(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeJSON[EligibilityRequest](w, r, h.logger)
	if !ok {
		return
	}

	decision, status, err := h.service.CanUserPurchase(ctx, accountID, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EligibilityResponse{
		CanPurchase: decision.CanPurchase,
		RequiresKYC: decision.RequiresKYC,
		Message:     decision.Message,
		KYCStatus:   status.Payload(),
	})
}

// HandleReset handles DELETE /admin/kyc/{accountID} requests.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, err := id.ParseAccountID(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.ResetKYC(ctx, accountID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "kyc status reset via admin endpoint",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", accountID.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) authenticated(w http.ResponseWriter, ctx context.Context) (id.AccountID, bool) {
	accountID := requestcontext.AccountID(ctx)
	if accountID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return accountID, true
}
