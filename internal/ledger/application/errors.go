package ledger

import "errors"

var (
	ErrDuplicateCustomer = errors.New("ledger: duplicate customer id")
	ErrCustomerNotFound  = errors.New("ledger: customer not found")
	ErrNilCustomer       = errors.New("ledger: nil customer")
	ErrNilCatalog        = errors.New("ledger: nil catalog")
)
