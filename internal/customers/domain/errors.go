package customers

import "errors"

var (
	ErrInvalidCustomer        = errors.New("customers: invalid customer")
	ErrNegativeUsage          = errors.New("customers: usage must not be negative")
	ErrUsageExceedsAllocation = errors.New("customers: usage exceeds remaining allocation")
	ErrBillIndexOutOfRange    = errors.New("customers: bill index out of range")
	ErrNegativePayment        = errors.New("customers: payment must not be negative")
	ErrInsufficientPayment    = errors.New("customers: payment is less than bill amount")
	ErrNegativeCost           = errors.New("customers: maintenance cost must not be negative")
	ErrNegativeAmount         = errors.New("customers: bill amount must not be negative")
	ErrInvalidIssueTime       = errors.New("customers: bill issue time is required")
)
