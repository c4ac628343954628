package waitlist

import (
	"errors"

	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

// Sentinel errors for the waitlist domain.
var (
	ErrEntryNotFound  = errors.New("waitlist entry not found")
	ErrInvalidReceipt = errors.New("receipt is invalid or has expired")
)

const (
	msgValidationFailed = "Please correct the errors below."
	msgStoreUnavailable = "The waitlist is temporarily unavailable. Please try again shortly."
	msgInvalidReceipt   = "This thank-you link is invalid or has expired."
)

func NewEntryNotFoundError() *apperrors.AppError {
	return apperrors.NewNotFoundError("waitlist entry not found", ErrEntryNotFound)
}

func NewInvalidReceiptError(cause error) *apperrors.AppError {
	if cause == nil {
		cause = ErrInvalidReceipt
	}
	return apperrors.NewInvalidRequestError(msgInvalidReceipt, errors.Join(ErrInvalidReceipt, cause))
}

// newStoreError wraps a database failure as a retryable ServiceUnavailable error.
func newStoreError(err error) *apperrors.AppError {
	return apperrors.NewServiceUnavailableError(msgStoreUnavailable, err)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
