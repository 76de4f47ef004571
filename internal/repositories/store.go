package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in one unit of work.
// Repositories obtained from the Store passed to ExecuteInTransaction share
// the same database transaction.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Deposits() DepositRepository
	Affiliates() AffiliateRepository
	Withdrawals() WithdrawalRepository
	Users() UserRepository
	Settings() SettingRepository
	Notifications() NotificationRepository

	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	if db == nil {
		panic("db is required")
	}
	return &store{db: db}
}

func (s *store) Wallets() WalletRepository             { return NewWalletRepository(s.db) }
func (s *store) Transactions() TransactionRepository   { return NewTransactionRepository(s.db) }
func (s *store) Deposits() DepositRepository           { return NewDepositRepository(s.db) }
func (s *store) Affiliates() AffiliateRepository       { return NewAffiliateRepository(s.db) }
func (s *store) Withdrawals() WithdrawalRepository     { return NewWithdrawalRepository(s.db) }
func (s *store) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *store) Settings() SettingRepository           { return NewSettingRepository(s.db) }
func (s *store) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
