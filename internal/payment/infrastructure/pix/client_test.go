package pix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comanda-app/comanda/internal/payment/domain"
	shared "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCharge(t *testing.T) domain.Charge {
	t.Helper()

	taxID, err := shared.NewTaxID("52998224725")
	require.NoError(t, err)

	return domain.Charge{
		ReferenceID: "ref-1",
		Amount:      4550,
		Description: "Consolidated tab payment",
		Payer: domain.Payer{
			FullName: "Maria Oliveira",
			TaxID:    taxID,
		},
	}
}

// newTestServer serves both the token endpoint and the charges endpoint.
func newTestServer(t *testing.T, charges http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/charges", charges)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.TokenURL = server.URL + "/token"
	cfg.ClientID = "client"
	cfg.ClientSecret = "secret"
	return NewClient(cfg, nil)
}

func TestClient_GenerateCode(t *testing.T) {
	var received chargeRequest
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(chargeResponse{
			PaymentID: "pay-123",
			PixCode:   "00020126580014br.gov.bcb.pix...",
		})
	})

	client := newTestClient(t, server)

	code, err := client.GenerateCode(context.Background(), testCharge(t))

	require.NoError(t, err)
	assert.Equal(t, "pay-123", code.PaymentID)
	assert.Equal(t, "00020126580014br.gov.bcb.pix...", code.Code)

	assert.Equal(t, "ref-1", received.ReferenceID)
	assert.Equal(t, "45.50", received.Amount)
	assert.Equal(t, "52998224725", received.Payer.TaxID)
}

func TestClient_GenerateCode_ProviderError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errorResponse{Message: "payer tax id rejected"})
	})

	client := newTestClient(t, server)

	_, err := client.GenerateCode(context.Background(), testCharge(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "payer tax id rejected")
}

func TestClient_GenerateCode_MalformedResponse(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	})

	client := newTestClient(t, server)

	_, err := client.GenerateCode(context.Background(), testCharge(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestClient_CircuitBreakerOpensAfterFailures(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.TokenURL = server.URL + "/token"
	cfg.ClientID = "client"
	cfg.ClientSecret = "secret"
	cfg.FailureThreshold = 2
	client := NewClient(cfg, nil)

	ctx := context.Background()
	charge := testCharge(t)

	_, err := client.GenerateCode(ctx, charge)
	require.Error(t, err)
	_, err = client.GenerateCode(ctx, charge)
	require.Error(t, err)

	// Breaker is open now; the request never reaches the provider.
	_, err = client.GenerateCode(ctx, charge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "12.00", formatAmount(1200))
	assert.Equal(t, "45.50", formatAmount(4550))
	assert.Equal(t, "-1.01", formatAmount(-101))
}
