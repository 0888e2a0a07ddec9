package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTransactionFailed = errors.New("transaction failed")
)

// businessErrors are rejections decided by ledger rules. Anything else that
// escapes a transaction is reported as ErrTransactionFailed.
var businessErrors = []error{
	ErrNotFound,
	ErrUnauthorized,
	ErrInsufficientFunds,
	ErrForbidden,
	ErrInvalidInput,
}

func transactionError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}
