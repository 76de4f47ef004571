package bspay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pixpay/internal/config"
	apperrors "pixpay/internal/errors"
	"pixpay/internal/repositories"

	"golang.org/x/time/rate"
)

// Opener yields a gateway client for the current credentials.
type Opener interface {
	Open(ctx context.Context) (API, error)
}

// Factory builds a Client per request from the credentials stored in the
// gateways table. Only the HTTP transport and the rate limiter are shared.
type Factory struct {
	settings   repositories.SettingRepository
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewFactory(settings repositories.SettingRepository, cfg config.GatewayConfig) *Factory {
	if settings == nil {
		panic("setting repository is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}
	return &Factory{
		settings:   settings,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

func (f *Factory) New(ctx context.Context) (*Client, error) {
	gw, err := f.settings.GetGateway(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrGatewayNotFound) {
			return nil, apperrors.ErrGatewayNotConfigured
		}
		return nil, err
	}
	if gw.BsPayURI == "" || gw.BsPayClientID == "" || gw.BsPayClientSecret == "" {
		return nil, apperrors.ErrGatewayNotConfigured
	}
	return NewClient(ctx, Config{
		BaseURL:      gw.BsPayURI,
		ClientID:     gw.BsPayClientID,
		ClientSecret: gw.BsPayClientSecret,
	}, f.httpClient, f.limiter), nil
}

// Open is New behind the API interface.
func (f *Factory) Open(ctx context.Context) (API, error) {
	c, err := f.New(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}
