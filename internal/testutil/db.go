// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pixpay/internal/models"
	"pixpay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pixpay_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// Dec parses a decimal literal and fails the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// AssertDecimal compares decimals by value.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	w := Dec(t, want)
	assert.Truef(t, w.Equal(got), "want %s, got %s %v", w, got, fmt.Sprint(msgAndArgs...))
}

// Fixture seeds a user with a wallet and returns both.
func Fixture(t *testing.T, db *gorm.DB, email string, inviterID *uint) (*models.User, *models.Wallet) {
	t.Helper()
	user := &models.User{Name: email, Email: email, Password: "x", Role: models.RoleUser, InviterID: inviterID}
	require.NoError(t, db.Create(user).Error)

	wallet := &models.Wallet{UserID: user.ID, Currency: "BRL"}
	require.NoError(t, db.Create(wallet).Error)
	return user, wallet
}

// PendingDeposit seeds a pending transaction and its deposit.
func PendingDeposit(t *testing.T, db *gorm.DB, userID uint, paymentID, amount string, acceptBonus bool) {
	t.Helper()
	amt := Dec(t, amount)
	require.NoError(t, db.Create(&models.Transaction{
		PaymentID:     paymentID,
		UserID:        userID,
		PaymentMethod: models.PaymentMethodPix,
		Price:         amt,
		Currency:      "BRL",
		Status:        models.TransactionStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.Deposit{
		PaymentID:   paymentID,
		UserID:      userID,
		Amount:      amt,
		Type:        models.PaymentMethodPix,
		AcceptBonus: acceptBonus,
		Status:      models.DepositStatusPending,
	}).Error)
}

// ReloadWallet reads the wallet of userID straight from the database.
func ReloadWallet(t *testing.T, db *gorm.DB, userID uint) *models.Wallet {
	t.Helper()
	var w models.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).First(&w).Error)
	return &w
}
