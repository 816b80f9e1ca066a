// Package climatiq is a client for the Climatiq emissions estimate API,
// used as the external source of manufacturing footprints.
package climatiq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/ecoshop-impact/internal/carbon"
)

const (
	// DefaultBaseURL is the Climatiq API root.
	DefaultBaseURL = "https://api.climatiq.io"

	// EstimatePath is the estimate endpoint below the base URL.
	EstimatePath = "/data/v1/estimate"

	// DefaultTimeout bounds a single estimate request.
	DefaultTimeout = 10 * time.Second

	// DefaultDataVersion selects the latest major data release.
	DefaultDataVersion = "^0"

	// maxErrorBody caps how much of a non-200 body is kept for logging.
	maxErrorBody = 512
)

// Config configures a Client. An empty APIKey yields a disabled client.
type Config struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	DataVersion string

	// HTTPClient overrides the default client; its Timeout is left as is.
	HTTPClient *http.Client
}

// Client implements carbon.ExternalEstimator against the Climatiq API.
type Client struct {
	apiKey      string
	endpoint    string
	dataVersion string
	timeout     time.Duration
	httpClient  *http.Client
	factors     *carbon.Factors
	logger      zerolog.Logger
}

var _ carbon.ExternalEstimator = (*Client)(nil)

// NewClient creates a Client. factors supplies the category mapping.
func NewClient(cfg Config, factors *carbon.Factors, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dataVersion := cfg.DataVersion
	if dataVersion == "" {
		dataVersion = DefaultDataVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		endpoint:    baseURL + EstimatePath,
		dataVersion: dataVersion,
		timeout:     timeout,
		httpClient:  httpClient,
		factors:     factors,
		logger:      logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Estimate requests the manufacturing footprint of p. It issues a single
// POST with no retry; every failure is returned as an unavailable result.
func (c *Client) Estimate(ctx context.Context, p carbon.Product) carbon.ExternalResult {
	if !c.Enabled() {
		return carbon.ExternalFailure(carbon.ReasonRequest, errors.New("climatiq: no API key configured"))
	}

	payload := c.buildRequest(p)
	body, err := json.Marshal(payload)
	if err != nil {
		return carbon.ExternalFailure(carbon.ReasonRequest, fmt.Errorf("encoding payload: %w", err))
	}

	c.logger.Debug().
		Str("product_id", p.ID).
		Str("activity_id", payload.EmissionFactor.ActivityID).
		RawJSON("parameters", mustJSON(payload.Parameters)).
		Msg("climatiq estimate request")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return carbon.ExternalFailure(carbon.ReasonRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return carbon.ExternalFailure(classifyTransportError(err), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug().Err(cerr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return carbon.ExternalFailure(carbon.ReasonStatus,
			fmt.Errorf("climatiq: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return carbon.ExternalFailure(classifyTransportError(err), err)
	}
	return parseEstimate(raw)
}

// buildRequest maps p to a request payload. Exactly one sizing parameter
// is set, by priority money > weight > volume.
func (c *Client) buildRequest(p carbon.Product) estimateRequest {
	return estimateRequest{
		EmissionFactor: emissionFactor{
			ActivityID:  c.factors.GetActivityID(p.CategoryClimatiq),
			DataVersion: c.dataVersion,
		},
		Parameters: sizingParameters(p),
	}
}

func sizingParameters(p carbon.Product) parameters {
	switch {
	case p.Money != nil:
		money := *p.Money
		return parameters{Money: &money, MoneyUnit: orDefault(p.MoneyUnit, carbon.DefaultMoneyUnit)}
	case p.Weight > 0:
		weight := p.Weight
		return parameters{Weight: &weight, WeightUnit: orDefault(p.WeightUnit, carbon.DefaultWeightUnit)}
	case p.Volume != nil:
		volume := *p.Volume
		return parameters{Volume: &volume, VolumeUnit: orDefault(p.VolumeUnit, carbon.DefaultVolumeUnit)}
	default:
		return parameters{}
	}
}

// parseEstimate extracts co2e from a 200 response body.
func parseEstimate(raw []byte) carbon.ExternalResult {
	var resp estimateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return carbon.ExternalFailure(carbon.ReasonDecode, err)
	}
	if len(resp.CO2e) == 0 || string(resp.CO2e) == "null" {
		return carbon.ExternalFailure(carbon.ReasonMissingField, errors.New("climatiq: response has no co2e"))
	}
	var co2e float64
	if err := json.Unmarshal(resp.CO2e, &co2e); err != nil {
		return carbon.ExternalFailure(carbon.ReasonMissingField, fmt.Errorf("climatiq: co2e is not a number: %w", err))
	}
	return carbon.ExternalSuccess(carbon.Round3(co2e))
}

func classifyTransportError(err error) carbon.FailureReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return carbon.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return carbon.ReasonTimeout
	}
	return carbon.ReasonConnection
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
