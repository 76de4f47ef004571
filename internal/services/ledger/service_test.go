package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/services/ledger"
	"pixpay/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	db := testutil.NewDB(t)
	user, _ := testutil.Fixture(t, db, "l@pix.test", nil)
	testutil.PendingDeposit(t, db, user.ID, "pay-1", "100", false)
	store := repositories.NewStore(db)
	svc := ledger.NewService(store, nil)
	ctx := context.Background()

	txn, err := svc.Finalize(ctx, store, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, txn.UserID)
	testutil.AssertDecimal(t, "100", txn.Price)

	_, err = svc.Finalize(ctx, store, "pay-1")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = svc.Finalize(ctx, store, "nope")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestCreatePending(t *testing.T) {
	db := testutil.NewDB(t)
	user, _ := testutil.Fixture(t, db, "cp@pix.test", nil)
	store := repositories.NewStore(db)
	svc := ledger.NewService(store, nil)
	ctx := context.Background()

	err := store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return svc.CreatePending(ctx, tx, ledger.PendingDeposit{
			PaymentID:   "gw-9",
			UserID:      user.ID,
			Amount:      testutil.Dec(t, "35.90"),
			AcceptBonus: true,
		})
	})
	require.NoError(t, err)

	dep, err := store.Deposits().LockPendingByPaymentID(ctx, "gw-9")
	require.NoError(t, err)
	assert.True(t, dep.AcceptBonus)
	testutil.AssertDecimal(t, "35.9", dep.Amount)

	txn, err := store.Transactions().FindByPaymentID(ctx, "gw-9")
	require.NoError(t, err)
	assert.Equal(t, "BRL", txn.Currency)
}

func TestQueryStatus(t *testing.T) {
	db := testutil.NewDB(t)
	user, _ := testutil.Fixture(t, db, "q@pix.test", nil)
	testutil.PendingDeposit(t, db, user.ID, "pay-q", "10", false)
	store := repositories.NewStore(db)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	svc := ledger.NewService(store, cache.NewCacheService(client, time.Minute))
	ctx := context.Background()
	key := fmt.Sprintf("payment:status:%d:pay-q", user.ID)

	status, err := svc.QueryStatus(ctx, user.ID, "pay-q")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNotPaid, status)
	assert.False(t, mr.Exists(key), "negative answers are not cached")

	status, err = svc.QueryStatus(ctx, user.ID, "unknown")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNotPaid, status)

	_, err = svc.Finalize(ctx, store, "pay-q")
	require.NoError(t, err)

	status, err = svc.QueryStatus(ctx, user.ID, "pay-q")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, status)
	assert.True(t, mr.Exists(key))
}

func TestQueryStatus_OtherUsersPayment(t *testing.T) {
	db := testutil.NewDB(t)
	owner, _ := testutil.Fixture(t, db, "owner@pix.test", nil)
	other, _ := testutil.Fixture(t, db, "nosy@pix.test", nil)
	testutil.PendingDeposit(t, db, owner.ID, "pay-o", "10", false)
	store := repositories.NewStore(db)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	svc := ledger.NewService(store, cache.NewCacheService(client, time.Minute))
	ctx := context.Background()

	_, err := svc.Finalize(ctx, store, "pay-o")
	require.NoError(t, err)

	// a cached PAID for the owner must not leak to another user
	status, err := svc.QueryStatus(ctx, owner.ID, "pay-o")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, status)

	status, err = svc.QueryStatus(ctx, other.ID, "pay-o")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNotPaid, status)
}
