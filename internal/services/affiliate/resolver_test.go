package affiliate_test

import (
	"context"
	"testing"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/services/affiliate"
	"pixpay/internal/services/wallet"
	"pixpay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEvaluate(t *testing.T) {
	d := func(s string) decimal.Decimal { return testutil.Dec(t, s) }
	terms := affiliate.Thresholds{
		PercentageBaseline: d("50"),
		CPABaseline:        d("30"),
		PercentageRate:     d("10"),
		CPAFlatAmount:      d("15"),
	}

	tests := []struct {
		name      string
		deposited decimal.Decimal
		amount    decimal.Decimal
		wantTier  affiliate.Tier
		want      string
	}{
		{"percentage by single deposit", d("60"), d("60"), affiliate.TierPercentage, "6"},
		{"percentage by accumulation", d("55"), d("20"), affiliate.TierPercentage, "2"},
		{"percentage wins when both qualify", d("100"), d("100"), affiliate.TierPercentage, "10"},
		{"cpa flat", d("35"), d("10"), affiliate.TierCPA, "15"},
		{"cpa by single deposit", d("40"), d("40"), affiliate.TierCPA, "15"},
		{"below both", d("20"), d("5"), affiliate.TierNone, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, amount := affiliate.Evaluate(terms, tt.deposited, tt.amount)
			assert.Equal(t, tt.wantTier, tier)
			testutil.AssertDecimal(t, tt.want, amount)
		})
	}
}

type fixture struct {
	db       *gorm.DB
	store    repositories.Store
	resolver *affiliate.Resolver
	inviter  *models.User
	user     *models.User
	history  *models.AffiliateHistory
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	inviter, _ := testutil.Fixture(t, db, "inviter@pix.test", nil)
	require.NoError(t, db.Model(inviter).Updates(map[string]interface{}{
		"affiliate_percentage_baseline": testutil.Dec(t, "50"),
		"affiliate_baseline":            testutil.Dec(t, "30"),
		"affiliate_percentage_rate":     testutil.Dec(t, "10"),
		"affiliate_cpa":                 testutil.Dec(t, "15"),
	}).Error)
	user, _ := testutil.Fixture(t, db, "referred@pix.test", &inviter.ID)

	history := &models.AffiliateHistory{
		UserID:         user.ID,
		InviterID:      inviter.ID,
		CommissionType: models.CommissionTypeCPA,
		Status:         models.AffiliateStatusOpen,
	}
	require.NoError(t, db.Create(history).Error)

	store := repositories.NewStore(db)
	return &fixture{
		db:       db,
		store:    store,
		resolver: affiliate.NewResolver(wallet.NewService(store, nil)),
		inviter:  inviter,
		user:     user,
		history:  history,
	}
}

func (f *fixture) resolve(t *testing.T, amount string) *affiliate.Commission {
	t.Helper()
	var c *affiliate.Commission
	err := f.store.ExecuteInTransaction(context.Background(), func(tx repositories.Store) error {
		var err error
		c, err = f.resolver.Resolve(context.Background(), tx, f.user.ID, testutil.Dec(t, amount))
		return err
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) reloadHistory(t *testing.T) *models.AffiliateHistory {
	var h models.AffiliateHistory
	require.NoError(t, f.db.First(&h, f.history.ID).Error)
	return &h
}

func TestResolvePercentageTierPaysOnce(t *testing.T) {
	f := newFixture(t)

	c := f.resolve(t, "60")
	require.NotNil(t, c)
	assert.Equal(t, affiliate.TierPercentage, c.Tier)
	assert.Equal(t, f.inviter.ID, c.InviterID)
	testutil.AssertDecimal(t, "6", c.Amount)

	h := f.reloadHistory(t)
	assert.Equal(t, models.AffiliateStatusPaid, h.Status)
	testutil.AssertDecimal(t, "6", h.CommissionPaid)
	testutil.AssertDecimal(t, "60", h.DepositedAmount)
	testutil.AssertDecimal(t, "6", testutil.ReloadWallet(t, f.db, f.inviter.ID).ReferRewards)

	assert.Nil(t, f.resolve(t, "500"))
	testutil.AssertDecimal(t, "6", testutil.ReloadWallet(t, f.db, f.inviter.ID).ReferRewards)
	testutil.AssertDecimal(t, "60", f.reloadHistory(t).DepositedAmount)
}

func TestResolveAccumulatesBelowThresholds(t *testing.T) {
	f := newFixture(t)

	assert.Nil(t, f.resolve(t, "10"))
	assert.Nil(t, f.resolve(t, "10"))
	h := f.reloadHistory(t)
	assert.Equal(t, models.AffiliateStatusOpen, h.Status)
	testutil.AssertDecimal(t, "20", h.DepositedAmount)

	c := f.resolve(t, "15")
	require.NotNil(t, c)
	assert.Equal(t, affiliate.TierCPA, c.Tier)
	testutil.AssertDecimal(t, "15", c.Amount)
	testutil.AssertDecimal(t, "15", testutil.ReloadWallet(t, f.db, f.inviter.ID).ReferRewards)
}

func TestResolveWithoutHistory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.AffiliateHistory{}).
		Where("id = ?", f.history.ID).
		Update("commission_type", models.CommissionTypeRevShare).Error)

	assert.Nil(t, f.resolve(t, "100"))
	testutil.AssertDecimal(t, "0", f.reloadHistory(t).DepositedAmount)
}

func TestResolveInviterWithoutWalletKeepsAccumulation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Where("user_id = ?", f.inviter.ID).Delete(&models.Wallet{}).Error)

	assert.Nil(t, f.resolve(t, "60"))
	h := f.reloadHistory(t)
	assert.Equal(t, models.AffiliateStatusOpen, h.Status)
	testutil.AssertDecimal(t, "60", h.DepositedAmount)
}
