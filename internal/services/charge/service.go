// Package charge opens PIX deposits at the gateway and records them as
// pending until the gateway confirms payment.
package charge

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/gateway/bspay"
	"pixpay/internal/repositories"
	"pixpay/internal/services/ledger"
	"pixpay/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	callbackPath  = "/bspay/callback"
	payerQuestion = "Deposit to wallet"
)

type Request struct {
	Amount      decimal.Decimal `json:"amount"`
	Document    string          `json:"cpf"`
	AcceptBonus bool            `json:"accept_bonus"`
}

type Result struct {
	IDTransaction string `json:"idTransaction"`
	QRCode        string `json:"qrcode"`
}

type Config struct {
	Store     repositories.Store
	Ledger    *ledger.Service
	Gateways  bspay.Opener
	PublicURL string
}

type Service struct {
	store     repositories.Store
	ledger    *ledger.Service
	gateways  bspay.Opener
	publicURL string
}

func NewService(cfg Config) *Service {
	if cfg.Store == nil {
		panic("store is required")
	}
	if cfg.Ledger == nil {
		panic("ledger is required")
	}
	if cfg.Gateways == nil {
		panic("gateway opener is required")
	}
	return &Service{
		store:     cfg.Store,
		ledger:    cfg.Ledger,
		gateways:  cfg.Gateways,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// RequestQRCode asks the gateway for a PIX charge and stores the pending
// transaction and deposit under the returned gateway id.
func (s *Service) RequestQRCode(ctx context.Context, userID uint, req Request) (*Result, error) {
	setting, err := s.store.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	v := validation.New()
	v.AmountRange("amount", req.Amount, setting.MinDeposit, setting.MaxDeposit)
	if !v.Valid() {
		return nil, apperrors.ErrAmountOutOfRange
	}
	if !validation.ValidCPF(req.Document) {
		return nil, apperrors.ErrInvalidDocument
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	splits, err := s.store.Settings().ListActiveSplits(ctx)
	if err != nil {
		return nil, fmt.Errorf("load splits: %w", err)
	}

	amount := req.Amount.Round(2)
	params := bspay.ChargeParams{
		Amount:        amount.InexactFloat64(),
		ExternalID:    strconv.FormatUint(uint64(userID), 10),
		PayerQuestion: payerQuestion,
		PostbackURL:   s.publicURL + callbackPath,
		Payer: bspay.Payer{
			Name:     user.Name,
			Document: validation.OnlyDigits(req.Document),
			Email:    user.Email,
		},
	}
	for _, sp := range splits {
		params.Split = append(params.Split, bspay.Split{Username: sp.Username, PercentageSplit: sp.PercentageSplit})
	}
	log.Printf("[charge] user %d requesting %s with %d split(s)", userID, amount.StringFixed(2), len(params.Split))

	gw, err := s.gateways.Open(ctx)
	if err != nil {
		return nil, err
	}
	res, err := gw.CreateCharge(ctx, params)
	if err != nil {
		return nil, err
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return s.ledger.CreatePending(ctx, tx, ledger.PendingDeposit{
			PaymentID:   res.TransactionID,
			UserID:      userID,
			Amount:      amount,
			Currency:    setting.CurrencyCode,
			AcceptBonus: req.AcceptBonus,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("record pending deposit %s: %w", res.TransactionID, err)
	}

	return &Result{IDTransaction: res.TransactionID, QRCode: res.QRCode}, nil
}
