package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrInvalidBucket = &DomainError{
		Code:    "INVALID_BUCKET",
		Message: "unknown wallet bucket",
	}
)
