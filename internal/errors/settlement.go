package errors

var (
	ErrSettlementInProgress = &DomainError{
		Code:    "SETTLEMENT_IN_PROGRESS",
		Message: "another confirmation for this payment is being processed",
	}
	ErrDepositNotFound = &DomainError{
		Code:    "DEPOSIT_NOT_FOUND",
		Message: "no pending deposit for this payment",
	}
	ErrWithdrawalNotFound = &DomainError{
		Code:    "WITHDRAWAL_NOT_FOUND",
		Message: "withdrawal not found",
	}
	ErrWithdrawalAlreadyPaid = &DomainError{
		Code:    "WITHDRAWAL_ALREADY_PAID",
		Message: "withdrawal has already been paid",
	}
	ErrAmountOutOfRange = &DomainError{
		Code:    "AMOUNT_OUT_OF_RANGE",
		Message: "amount is outside the allowed deposit range",
	}
	ErrInvalidDocument = &DomainError{
		Code:    "INVALID_DOCUMENT",
		Message: "a valid CPF document is required",
	}
	ErrGatewayNotConfigured = &DomainError{
		Code:    "GATEWAY_NOT_CONFIGURED",
		Message: "payment gateway credentials are not configured",
	}
)
