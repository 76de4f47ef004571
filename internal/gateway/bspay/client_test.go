package bspay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	tokenCalls int32
	lastCharge ChargeParams
	lastPayout PayoutParams
	failWith   int
}

func (f *fakeGateway) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		id, secret, ok := r.BasicAuth()
		if !ok || id != "client" || secret != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/pix/qrcode", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			w.Write([]byte(`{"message":"amount invalid"}`))
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastCharge))
		w.Write([]byte(`{"transactionId":"gw-123","qrcode":"000201..."}`))
	})
	mux.HandleFunc("/v2/pix/payment", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastPayout))
		w.Write([]byte(`{"idTransaction":"e2e-9","status":"PENDING"}`))
	})
	return mux
}

func newTestClient(t *testing.T, gw *fakeGateway, secret string) *Client {
	srv := httptest.NewServer(gw.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(context.Background(), Config{
		BaseURL:      srv.URL + "/",
		ClientID:     "client",
		ClientSecret: secret,
	}, srv.Client(), nil)
}

func TestAuthenticate(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestClient(t, gw, "secret")

	tok, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// cached until expiry
	_, err = c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.tokenCalls))
}

func TestAuthenticateRejected(t *testing.T) {
	c := newTestClient(t, &fakeGateway{}, "wrong")

	_, err := c.Authenticate(context.Background())
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "invalid_client")
}

func TestCreateCharge(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestClient(t, gw, "secret")

	res, err := c.CreateCharge(context.Background(), ChargeParams{
		Amount:      100.5,
		ExternalID:  "7",
		PostbackURL: "https://pay.example.com/bspay/callback",
		Payer:       Payer{Name: "Ana", Document: "12345678909", Email: "ana@pix.test"},
		Split:       []Split{{Username: "house", PercentageSplit: "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "gw-123", res.TransactionID)
	assert.Equal(t, "000201...", res.QRCode)

	assert.Equal(t, 100.5, gw.lastCharge.Amount)
	assert.Equal(t, "12345678909", gw.lastCharge.Payer.Document)
	require.Len(t, gw.lastCharge.Split, 1)
	assert.Equal(t, "house", gw.lastCharge.Split[0].Username)
}

func TestCreateChargeUpstreamError(t *testing.T) {
	gw := &fakeGateway{failWith: http.StatusUnprocessableEntity}
	c := newTestClient(t, gw, "secret")

	_, err := c.CreateCharge(context.Background(), ChargeParams{Amount: 1})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.JSONEq(t, `{"message":"amount invalid"}`, upstream.Body)
}

func TestCreatePayout(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestClient(t, gw, "secret")

	res, err := c.CreatePayout(context.Background(), PayoutParams{
		Amount:      50,
		ExternalID:  "ext-1",
		Description: "withdrawal",
		CreditParty: CreditParty{Name: "Ana", Key: "ana@pix.test", KeyType: PixKeyType("email"), TaxID: "12345678909"},
	})
	require.NoError(t, err)
	assert.Equal(t, "e2e-9", res.TransactionID)
	assert.Equal(t, "EMAIL", gw.lastPayout.CreditParty.KeyType)
	assert.Equal(t, "ext-1", gw.lastPayout.ExternalID)
}

func TestPixKeyType(t *testing.T) {
	cases := map[string]string{
		"email":       "EMAIL",
		"document":    "CPF",
		"cnpj":        "CNPJ",
		"randomKey":   "ALEATORIA",
		"phone":       "TELEFONE",
		"phoneNumber": "TELEFONE",
		"":            "CPF",
		"other":       "CPF",
	}
	for in, want := range cases {
		assert.Equal(t, want, PixKeyType(in), in)
	}
}
