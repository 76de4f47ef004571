package bonus

import (
	"context"
	"testing"

	"pixpay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatePolicy(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		amount  string
		want    string
		wantNil bool
	}{
		{name: "five percent", rate: "5", amount: "100", want: "5"},
		{name: "rounded to cents", rate: "3", amount: "10.55", want: "0.32"},
		{name: "zero rate", rate: "0", amount: "100", wantNil: true},
		{name: "tiny amount rounds away", rate: "1", amount: "0.1", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			muts, err := RatePolicy{}.Accrue(context.Background(), Input{
				UserID:  1,
				Amount:  decimal.RequireFromString(tt.amount),
				Setting: &models.Setting{VipBonusRate: decimal.RequireFromString(tt.rate)},
			})
			require.NoError(t, err)
			if tt.wantNil {
				assert.Empty(t, muts)
				return
			}
			require.Len(t, muts, 1)
			assert.Equal(t, models.BucketBalanceBonus, muts[0].Bucket)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(muts[0].Amount), "got %s", muts[0].Amount)
		})
	}
}

func TestNoopPolicy(t *testing.T) {
	muts, err := NoopPolicy{}.Accrue(context.Background(), Input{Amount: decimal.NewFromInt(100)})
	assert.NoError(t, err)
	assert.Nil(t, muts)
}
