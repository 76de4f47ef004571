package handlers

import (
	"errors"
	"log"

	apperrors "pixpay/internal/errors"
	"pixpay/internal/gateway/bspay"
	"pixpay/internal/utils"
	"pixpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAmountOutOfRange),
		errors.Is(err, apperrors.ErrInvalidDocument),
		errors.Is(err, apperrors.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrWalletNotFound),
		errors.Is(err, apperrors.ErrWithdrawalNotFound),
		errors.Is(err, apperrors.ErrDepositNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrSettlementInProgress),
		errors.Is(err, apperrors.ErrWithdrawalAlreadyPaid):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrGatewayNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var upstream *bspay.UpstreamError
	if errors.As(err, &upstream) {
		log.Printf("[http] %s %s: gateway answered %d", c.Method(), c.Path(), upstream.StatusCode)
		return utils.Respond(c, fiber.StatusBadGateway, fiber.Map{
			"error":           "payment gateway rejected the request",
			"upstream_status": upstream.StatusCode,
			"upstream_body":   upstream.Body,
		})
	}
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	}
	return utils.DomainError(c, status, err)
}

// bind parses the JSON body into dst and runs its validate tags. It writes
// the 400 itself and reports false when the request is unusable.
func bind(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, utils.BadRequest(c, "invalid request format")
	}
	v := validation.New()
	v.Struct(dst)
	if !v.Valid() {
		return false, utils.ValidationFailed(c, v.Errors)
	}
	return true, nil
}
