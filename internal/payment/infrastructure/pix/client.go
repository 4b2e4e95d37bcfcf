// Package pix implements the payment gateway port against a Pix provider's
// HTTP API.
package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/comanda-app/comanda/internal/payment/domain"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the Pix provider connection settings.
type Config struct {
	BaseURL          string
	TokenURL         string
	ClientID         string
	ClientSecret     string
	RequestTimeout   time.Duration
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// DefaultConfig returns sensible defaults for everything but the credentials.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:   10 * time.Second,
		FailureThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// Client requests Pix codes over HTTP. Requests are authenticated with
// client-credentials OAuth2 and guarded by a circuit breaker so a downed
// provider fails fast instead of tying up request handlers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[domain.PixCode]
	logger     *slog.Logger
}

// NewClient creates a new Pix provider client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	oauthCfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := oauthCfg.Client(context.Background())
	httpClient.Timeout = cfg.RequestTimeout

	settings := gobreaker.Settings{
		Name:    "pix-gateway",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"gateway", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker[domain.PixCode](settings),
		logger:     logger,
	}
}

// chargeRequest is the provider's wire format. Amounts are decimal strings
// with two places, per the Pix API convention.
type chargeRequest struct {
	ReferenceID string      `json:"reference_id"`
	Amount      string      `json:"amount"`
	Description string      `json:"description"`
	Payer       chargePayer `json:"payer"`
}

type chargePayer struct {
	FullName string `json:"full_name"`
	TaxID    string `json:"tax_id"`
}

type chargeResponse struct {
	PaymentID string `json:"payment_id"`
	PixCode   string `json:"pix_code"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// GenerateCode requests one scannable Pix code for the charge.
func (c *Client) GenerateCode(ctx context.Context, charge domain.Charge) (domain.PixCode, error) {
	return c.breaker.Execute(func() (domain.PixCode, error) {
		return c.generateCode(ctx, charge)
	})
}

func (c *Client) generateCode(ctx context.Context, charge domain.Charge) (domain.PixCode, error) {
	body, err := json.Marshal(chargeRequest{
		ReferenceID: charge.ReferenceID,
		Amount:      formatAmount(charge.Amount),
		Description: charge.Description,
		Payer: chargePayer{
			FullName: charge.Payer.FullName,
			TaxID:    charge.Payer.TaxID.String(),
		},
	})
	if err != nil {
		return domain.PixCode{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return domain.PixCode{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PixCode{}, fmt.Errorf("pix gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return domain.PixCode{}, fmt.Errorf("pix gateway returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return domain.PixCode{}, fmt.Errorf("pix gateway returned %d", resp.StatusCode)
	}

	var chargeResp chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil {
		return domain.PixCode{}, fmt.Errorf("pix gateway response malformed: %w", err)
	}

	c.logger.Debug("pix code generated",
		"reference_id", charge.ReferenceID,
		"payment_id", chargeResp.PaymentID,
	)

	return domain.PixCode{
		PaymentID: chargeResp.PaymentID,
		Code:      chargeResp.PixCode,
	}, nil
}

// formatAmount renders cents as a two-place decimal string.
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
