package payout_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/gateway/bspay"
	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/repositories/cache"
	"pixpay/internal/services/payout"
	"pixpay/internal/services/settlement"
	"pixpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  repositories.Store
	gw     *testutil.MockGateway
	locker *cache.LocalLocker
	svc    *payout.Service
	user   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	user, _ := testutil.Fixture(t, db, "payee@pix.test", nil)
	store := repositories.NewStore(db)
	gw := new(testutil.MockGateway)
	locker := cache.NewLocalLocker()
	return &fixture{
		store:  store,
		gw:     gw,
		locker: locker,
		user:   user,
		svc: payout.NewService(payout.Config{
			Store:    store,
			Gateways: testutil.StaticOpener{API: gw},
			Engine:   settlement.NewWithdrawalEngine(store, nil),
			Locker:   locker,
		}),
	}
}

func (f *fixture) withdrawal(t *testing.T, isAffiliate bool) *models.Withdrawal {
	t.Helper()
	w := &models.Withdrawal{
		UserID:   f.user.ID,
		Amount:   testutil.Dec(t, "150.25"),
		PixKey:   "payee@pix.test",
		PixType:  "email",
		Document: "529.982.247-25",
		Status:   models.WithdrawalStatusPending,
	}
	require.NoError(t, f.store.Withdrawals().Create(context.Background(), w, isAffiliate))
	return w
}

func TestPay(t *testing.T) {
	for _, isAffiliate := range []bool{false, true} {
		t.Run(map[bool]string{false: "ordinary", true: "affiliate"}[isAffiliate], func(t *testing.T) {
			f := newFixture(t)
			w := f.withdrawal(t, isAffiliate)
			ctx := context.Background()

			f.gw.On("CreatePayout", mock.Anything, mock.MatchedBy(func(p bspay.PayoutParams) bool {
				return p.Amount == 150.25 &&
					p.ExternalID != "" &&
					p.CreditParty.Key == "payee@pix.test" &&
					p.CreditParty.KeyType == "EMAIL" &&
					p.CreditParty.TaxID == "52998224725" &&
					p.CreditParty.Name == f.user.Name
			})).Return(&bspay.PayoutResult{TransactionID: "e2e-77"}, nil).Once()

			proof, err := f.svc.Pay(ctx, w.ID, isAffiliate)
			require.NoError(t, err)
			assert.Equal(t, "e2e-77", proof)

			got, err := f.store.Withdrawals().GetByID(ctx, w.ID, isAffiliate)
			require.NoError(t, err)
			assert.Equal(t, models.WithdrawalStatusPaid, got.Status)
			assert.Equal(t, "e2e-77", got.Proof)

			_, err = f.svc.Pay(ctx, w.ID, isAffiliate)
			assert.ErrorIs(t, err, apperrors.ErrWithdrawalAlreadyPaid)
			f.gw.AssertNumberOfCalls(t, "CreatePayout", 1)
		})
	}
}

func TestPayProofFallback(t *testing.T) {
	f := newFixture(t)
	w := f.withdrawal(t, false)
	f.gw.On("CreatePayout", mock.Anything, mock.Anything).Return(&bspay.PayoutResult{}, nil).Once()

	proof, err := f.svc.Pay(context.Background(), w.ID, false)
	require.NoError(t, err)
	assert.NotEmpty(t, proof)
}

func TestPayMissingWithdrawal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Pay(context.Background(), 999, false)
	assert.ErrorIs(t, err, apperrors.ErrWithdrawalNotFound)
	f.gw.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
}

func TestPayGatewayFailureLeavesPending(t *testing.T) {
	f := newFixture(t)
	w := f.withdrawal(t, false)
	f.gw.On("CreatePayout", mock.Anything, mock.Anything).
		Return(nil, &bspay.UpstreamError{StatusCode: 422, Body: "invalid key"}).Once()

	_, err := f.svc.Pay(context.Background(), w.ID, false)
	require.Error(t, err)

	got, err := f.store.Withdrawals().GetByID(context.Background(), w.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, got.Status)
}

func TestPayInProgress(t *testing.T) {
	f := newFixture(t)
	w := f.withdrawal(t, true)
	ctx := context.Background()

	release, ok, err := f.locker.TryLock(ctx, "payout:affiliate:"+itoa(w.ID), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	_, err = f.svc.Pay(ctx, w.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrSettlementInProgress)
	f.gw.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}
