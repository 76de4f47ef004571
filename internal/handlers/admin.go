package handlers

import (
	"context"
	"log"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WithdrawalPayer interface {
	Pay(ctx context.Context, withdrawalID uint, isAffiliate bool) (string, error)
}

type AdminHandler struct {
	payouts     WithdrawalPayer
	withdrawals repositories.WithdrawalRepository
}

func NewAdminHandler(payouts WithdrawalPayer, withdrawals repositories.WithdrawalRepository) *AdminHandler {
	return &AdminHandler{payouts: payouts, withdrawals: withdrawals}
}

// PayWithdrawal sends a pending withdrawal to the gateway. ?affiliate=true
// selects the affiliate withdrawal table.
func (h *AdminHandler) PayWithdrawal(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid withdrawal id")
	}
	isAffiliate := c.QueryBool("affiliate", false)

	proof, err := h.payouts.Pay(c.UserContext(), uint(id), isAffiliate)
	if err != nil {
		return writeError(c, err)
	}

	claims, _ := utils.GetUserClaims(c)
	if claims != nil {
		log.Printf("[admin] user %d paid withdrawal %d (affiliate=%t)", claims.UserID, id, isAffiliate)
	}
	return utils.Success(c, fiber.Map{"paid": true, "proof": proof})
}

// ListWithdrawals pages through withdrawals by status, pending by default.
func (h *AdminHandler) ListWithdrawals(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	status := c.Query("status", models.WithdrawalStatusPending)
	if status != models.WithdrawalStatusPending && status != models.WithdrawalStatusPaid {
		return utils.ValidationFailed(c, map[string]string{"status": "must be one of pending paid"})
	}

	items, total, err := h.withdrawals.ListByStatus(c.UserContext(), status, c.QueryBool("affiliate", false), p.Offset, p.Limit)
	if err != nil {
		return writeError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(items, p))
}
