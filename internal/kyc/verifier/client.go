package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"vaultly/internal/kyc/metrics"
	"vaultly/internal/platform/config"
	id "vaultly/pkg/domain"
)

const panBasicPath = "/validation/kyc/v1/pan_basic"

// resultCodeValid is the provider's code for a confirmed PAN.
const resultCodeValid = 101

// defaultNameMatchMethod is sent whenever the caller supplies a holder name.
const defaultNameMatchMethod = "exact"

type validateRequest struct {
	ClientRefNum    string `json:"client_ref_num"`
	PAN             string `json:"pan"`
	Name            string `json:"name,omitempty"`
	NameMatchMethod string `json:"name_match_method,omitempty"`
}

type validateResponse struct {
	HTTPResponseCode int    `json:"http_response_code"`
	ResultCode       int    `json:"result_code"`
	Message          string `json:"message"`
	Result           *struct {
		Status         string  `json:"status"`
		Name           string  `json:"name"`
		NameMatch      *bool   `json:"name_match,omitempty"`
		NameMatchScore float64 `json:"name_match_score,omitempty"`
	} `json:"result,omitempty"`
}

// HTTPClient is the production verification client. Each call carries a fresh
// client_ref_num so the provider can deduplicate; because there is no
// automatic retry, a token is never reused.
type HTTPClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	metrics      *metrics.Metrics
}

// NewHTTPClient builds a client from provider configuration.
func NewHTTPClient(cfg config.VerifierConfig, m *metrics.Metrics) *HTTPClient {
	return &HTTPClient{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		metrics:      m,
	}
}

// Validate performs one remote validation attempt.
func (c *HTTPClient) Validate(ctx context.Context, pan id.PAN, holderName string) Outcome {
	start := time.Now()
	outcome := c.validate(ctx, pan, holderName)
	c.metrics.ObserveVerifierLatency(time.Since(start))
	c.metrics.RecordVerifierOutcome(string(outcome.Kind))
	return outcome
}

func (c *HTTPClient) validate(ctx context.Context, pan id.PAN, holderName string) Outcome {
	payload := validateRequest{
		ClientRefNum: uuid.NewString(),
		PAN:          pan.String(),
	}
	if holderName != "" {
		payload.Name = holderName
		payload.NameMatchMethod = defaultNameMatchMethod
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ServiceError(fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+panBasicPath, bytes.NewReader(body))
	if err != nil {
		return ServiceError(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures land here.
		return ServiceError(fmt.Sprintf("provider unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log trail; the detail never
		// reaches end users.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ServiceError(fmt.Sprintf("provider returned %d: %s", resp.StatusCode, detail))
	}

	var parsed validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ServiceError(fmt.Sprintf("malformed provider response: %v", err))
	}

	if parsed.ResultCode == resultCodeValid && parsed.Result != nil && parsed.Result.Status == "VALID" {
		return Valid(parsed.Result.Name)
	}

	reason := parsed.Message
	if reason == "" {
		reason = "PAN could not be verified"
	}
	return Invalid(reason)
}
