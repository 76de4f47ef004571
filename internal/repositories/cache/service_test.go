package cache

import (
	"context"
	"testing"
	"time"

	"pixpay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceWallet(t *testing.T) {
	mr, client := newTestRedis(t)
	svc := NewCacheService(client, time.Minute)
	ctx := context.Background()

	w, err := svc.GetWallet(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, w)

	require.NoError(t, svc.CacheWallet(ctx, &models.Wallet{UserID: 7, Balance: decimal.NewFromInt(120)}))
	assert.True(t, mr.Exists("wallet:user:7"))

	w, err = svc.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(120)))

	require.NoError(t, svc.InvalidateWallet(ctx, 7))
	assert.False(t, mr.Exists("wallet:user:7"))
}

func TestCacheServiceTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	svc := NewCacheService(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.SetWithTTL(ctx, "status:p1", "PAID", 10*time.Second))
	mr.FastForward(11 * time.Second)

	var got string
	found, err := svc.Get(ctx, "status:p1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGenerateKey(t *testing.T) {
	svc := NewCacheService(nil, time.Minute)
	assert.Equal(t, "wallet:user:3", svc.GenerateKey("wallet", "user", 3))
}
