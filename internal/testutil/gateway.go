package testutil

import (
	"context"

	"pixpay/internal/gateway/bspay"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Authenticate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateCharge(ctx context.Context, p bspay.ChargeParams) (*bspay.ChargeResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bspay.ChargeResult), args.Error(1)
}

func (m *MockGateway) CreatePayout(ctx context.Context, p bspay.PayoutParams) (*bspay.PayoutResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bspay.PayoutResult), args.Error(1)
}

// StaticOpener hands out the same API (or error) on every Open.
type StaticOpener struct {
	API bspay.API
	Err error
}

func (o StaticOpener) Open(context.Context) (bspay.API, error) { return o.API, o.Err }
