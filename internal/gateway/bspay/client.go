// Package bspay is the client for the BsPay PIX gateway.
package bspay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	tokenPath   = "/v2/oauth/token"
	qrcodePath  = "/v2/pix/qrcode"
	paymentPath = "/v2/pix/payment"
)

// UpstreamError carries a non-2xx gateway answer back to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("bspay: status %d: %s", e.StatusCode, e.Body)
}

// Config holds the credentials of one gateway account.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// API is what the payment flows need from the gateway.
type API interface {
	Authenticate(ctx context.Context) (string, error)
	CreateCharge(ctx context.Context, p ChargeParams) (*ChargeResult, error)
	CreatePayout(ctx context.Context, p PayoutParams) (*PayoutResult, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
}

// NewClient builds a client for cfg. httpClient sets the transport and
// timeout for both token and API calls; limiter may be nil.
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client, limiter *rate.Limiter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	tokens := cc.TokenSource(ctx)

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: httpClient.Transport},
		},
		tokens:  tokens,
		limiter: limiter,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Authenticate fetches (or reuses) an access token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return "", upstreamFromToken(err)
	}
	return tok.AccessToken, nil
}

func (c *Client) CreateCharge(ctx context.Context, p ChargeParams) (*ChargeResult, error) {
	var out ChargeResult
	if err := c.post(ctx, qrcodePath, p, &out); err != nil {
		return nil, err
	}
	if out.TransactionID == "" {
		return nil, errors.New("bspay: charge response without transactionId")
	}
	return &out, nil
}

func (c *Client) CreatePayout(ctx context.Context, p PayoutParams) (*PayoutResult, error) {
	var out PayoutResult
	if err := c.post(ctx, paymentPath, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("bspay: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Printf("[bspay] POST %s", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return upstreamFromToken(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[bspay] POST %s failed: status=%d body=%s", path, resp.StatusCode, string(respBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("bspay: decode response: %w", err)
	}
	return nil
}

// upstreamFromToken surfaces token endpoint failures as UpstreamError.
func upstreamFromToken(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &UpstreamError{StatusCode: re.Response.StatusCode, Body: string(re.Body)}
	}
	return fmt.Errorf("bspay: %w", err)
}
