package ledger

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrParentNotFound     = errors.New("parent account not found")
	ErrSystemAccount      = errors.New("system account cannot be modified or deleted")
	ErrAccountHasPostings = errors.New("account has postings")
	ErrTypeChange         = errors.New("account type cannot be changed")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidStatus      = errors.New("invalid account status")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnbalancedVoucher  = errors.New("journal voucher lines do not balance")
	ErrTooFewLines        = errors.New("journal voucher must have at least 2 lines")
	ErrMixedLine          = errors.New("journal line must have exactly one of debit or credit")
	ErrNoEntries          = errors.New("voucher must have at least one entry")
	ErrMissingRole        = errors.New("no account carries the required role")
	ErrUnknownKind        = errors.New("unknown document kind")
	ErrEmptyName          = errors.New("name is required")
)
