package handlers

import (
	"context"

	"pixpay/internal/services/charge"
	"pixpay/internal/services/ledger"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ChargeRequester interface {
	RequestQRCode(ctx context.Context, userID uint, req charge.Request) (*charge.Result, error)
}

type StatusQuerier interface {
	QueryStatus(ctx context.Context, userID uint, paymentID string) (ledger.Status, error)
}

type PaymentHandler struct {
	charges ChargeRequester
	status  StatusQuerier
}

func NewPaymentHandler(charges ChargeRequester, status StatusQuerier) *PaymentHandler {
	return &PaymentHandler{charges: charges, status: status}
}

type qrCodeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Document    string          `json:"cpf" validate:"required,cpf"`
	AcceptBonus bool            `json:"accept_bonus"`
}

func (h *PaymentHandler) RequestQRCode(c *fiber.Ctx) error {
	var body qrCodeRequest
	if ok, err := bind(c, &body); !ok {
		return err
	}

	res, err := h.charges.RequestQRCode(c.UserContext(), utils.GetUserID(c), charge.Request{
		Amount:      body.Amount,
		Document:    body.Document,
		AcceptBonus: body.AcceptBonus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"status":        true,
		"idTransaction": res.IDTransaction,
		"qrcode":        res.QRCode,
	})
}

type consultStatusRequest struct {
	IDTransaction string `json:"idTransaction" validate:"required"`
}

// ConsultStatus answers 200 PAID for the caller's settled payments, or 400
// NOPAID for pending, unknown and foreign ids.
func (h *PaymentHandler) ConsultStatus(c *fiber.Ctx) error {
	var body consultStatusRequest
	if ok, err := bind(c, &body); !ok {
		return err
	}

	status, err := h.status.QueryStatus(c.UserContext(), utils.GetUserID(c), body.IDTransaction)
	if err != nil {
		return writeError(c, err)
	}
	if status != ledger.StatusPaid {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"status": status})
	}
	return utils.Success(c, fiber.Map{"status": status})
}
