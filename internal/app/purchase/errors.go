package purchase

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodePackageNotFound             Code = "PACKAGE_NOT_FOUND"
	CodePackageDisabled             Code = "PACKAGE_DISABLED"
	CodeStoreDisabled               Code = "STORE_DISABLED"
	CodeInvalidPackagePrice         Code = "INVALID_PACKAGE_PRICE"
	CodeIndividualPurchasesDisabled Code = "INDIVIDUAL_PURCHASES_DISABLED"
	CodeResourceNotFound            Code = "RESOURCE_NOT_FOUND"
	CodeInvalidAmount               Code = "INVALID_AMOUNT"
	CodeBelowMinimum                Code = "BELOW_MINIMUM"
	CodeAboveMaximum                Code = "ABOVE_MAXIMUM"
	CodeInsufficientCredits         Code = "INSUFFICIENT_CREDITS"
	CodeCreditDeductionFailed       Code = "CREDIT_DEDUCTION_FAILED"
	CodeResourceAdditionFailed      Code = "RESOURCE_ADDITION_FAILED"
	CodePurchaseFailed              Code = "PURCHASE_FAILED"
)

// Error is a purchase failure with a stable machine-readable code.
// Codes up to INSUFFICIENT_CREDITS are raised before any credits move.
type Error struct {
	Code      Code
	Message   string
	Required  int64
	Available int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func insufficientCredits(required, available int64) *Error {
	return &Error{
		Code:      CodeInsufficientCredits,
		Message:   fmt.Sprintf("Insufficient credits: %d required, %d available", required, available),
		Required:  required,
		Available: available,
	}
}

// failed wraps an unexpected error, leaving typed errors untouched.
func failed(err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Code: CodePurchaseFailed, Message: "Purchase failed", Err: err}
}

// CodeOf extracts the purchase code of err, or PURCHASE_FAILED.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodePurchaseFailed
}
