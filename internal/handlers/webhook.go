package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DepositSettler interface {
	SettleDeposit(ctx context.Context, paymentID string) (bool, error)
}

type WithdrawalSettler interface {
	SettleWithdrawal(ctx context.Context, id uint, proof string, isAffiliate bool) (bool, error)
}

// WebhookHandler receives gateway confirmations. Duplicates and unknown ids
// are acknowledged with 200 so the gateway stops retrying; failures answer
// 5xx or 409 so it retries.
type WebhookHandler struct {
	deposits    DepositSettler
	withdrawals WithdrawalSettler
}

func NewWebhookHandler(deposits DepositSettler, withdrawals WithdrawalSettler) *WebhookHandler {
	return &WebhookHandler{deposits: deposits, withdrawals: withdrawals}
}

const gatewayStatusPaid = "PAID"

type depositCallback struct {
	TransactionID string `json:"transactionId"`
	RequestBody   *struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
	} `json:"requestBody"`
}

func (p depositCallback) paymentID() string {
	if p.TransactionID != "" {
		return p.TransactionID
	}
	if p.RequestBody != nil {
		return p.RequestBody.TransactionID
	}
	return ""
}

// paid reports whether the postback confirms payment. The bare
// {transactionId} form carries no status and always counts as a confirmation.
func (p depositCallback) paid() bool {
	if p.RequestBody == nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(p.RequestBody.Status), gatewayStatusPaid)
}

func (h *WebhookHandler) DepositCallback(c *fiber.Ctx) error {
	var body depositCallback
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	paymentID := body.paymentID()
	if paymentID == "" {
		return utils.ValidationFailed(c, map[string]string{"transactionId": "must not be empty"})
	}
	if !body.paid() {
		log.Printf("[webhook] deposit %s ignored, gateway status %q", paymentID, body.RequestBody.Status)
		return utils.Success(c, fiber.Map{"settled": false})
	}

	settled, err := h.deposits.SettleDeposit(c.UserContext(), paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettlementInProgress) {
			return utils.DomainError(c, fiber.StatusConflict, err)
		}
		log.Printf("[webhook] deposit %s failed: %v", paymentID, err)
		return utils.InternalError(c, "settlement failed")
	}
	return utils.Success(c, fiber.Map{"settled": settled})
}

type withdrawalCallback struct {
	InternalID  uint   `json:"internalId" validate:"required"`
	Proof       string `json:"proof" validate:"required"`
	IsAffiliate bool   `json:"isAffiliate"`
}

func (h *WebhookHandler) WithdrawalCallback(c *fiber.Ctx) error {
	var body withdrawalCallback
	if ok, err := bind(c, &body); !ok {
		return err
	}

	settled, err := h.withdrawals.SettleWithdrawal(c.UserContext(), body.InternalID, body.Proof, body.IsAffiliate)
	if err != nil {
		log.Printf("[webhook] withdrawal %d failed: %v", body.InternalID, err)
		return utils.InternalError(c, "settlement failed")
	}
	return utils.Success(c, fiber.Map{"settled": settled})
}
