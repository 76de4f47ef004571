package settlement_test

import (
	"context"
	"testing"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/services/settlement"
	"pixpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleWithdrawal(t *testing.T) {
	for _, isAffiliate := range []bool{false, true} {
		name := "ordinary"
		if isAffiliate {
			name = "affiliate"
		}
		t.Run(name, func(t *testing.T) {
			db := testutil.NewDB(t)
			user, _ := testutil.Fixture(t, db, "wd@pix.test", nil)
			store := repositories.NewStore(db)
			engine := settlement.NewWithdrawalEngine(store, nil)
			ctx := context.Background()

			w := &models.Withdrawal{
				UserID:  user.ID,
				Amount:  testutil.Dec(t, "80"),
				PixKey:  "12345678909",
				PixType: "document",
				Status:  models.WithdrawalStatusPending,
			}
			require.NoError(t, store.Withdrawals().Create(ctx, w, isAffiliate))

			ok, err := engine.SettleWithdrawal(ctx, w.ID, "e2e-1", isAffiliate)
			require.NoError(t, err)
			assert.True(t, ok)

			// a paid withdrawal is never re-processed
			ok, err = engine.SettleWithdrawal(ctx, w.ID, "e2e-2", isAffiliate)
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := store.Withdrawals().GetByID(ctx, w.ID, isAffiliate)
			require.NoError(t, err)
			assert.Equal(t, models.WithdrawalStatusPaid, got.Status)
			assert.Equal(t, "e2e-1", got.Proof)

			ok, err = engine.SettleWithdrawal(ctx, w.ID+100, "x", isAffiliate)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSettleWithdrawal_TablesAreSeparate(t *testing.T) {
	db := testutil.NewDB(t)
	user, _ := testutil.Fixture(t, db, "sep@pix.test", nil)
	store := repositories.NewStore(db)
	engine := settlement.NewWithdrawalEngine(store, nil)
	ctx := context.Background()

	w := &models.Withdrawal{UserID: user.ID, Amount: testutil.Dec(t, "5"), PixKey: "k", PixType: "email", Status: models.WithdrawalStatusPending}
	require.NoError(t, store.Withdrawals().Create(ctx, w, false))

	ok, err := engine.SettleWithdrawal(ctx, w.ID, "proof", true)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Withdrawals().GetByID(ctx, w.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, got.Status)
}
