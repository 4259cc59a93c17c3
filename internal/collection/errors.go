package collection

import (
	"errors"

	"lending/internal/models"
)

var (
	// ErrUnavailable means the work has no loanable copy, either because it
	// was never added or because every copy is checked out.
	ErrUnavailable = errors.New("work unavailable")

	// ErrInvalidRenewal means the renewal would move the due date backward.
	ErrInvalidRenewal = errors.New("invalid renewal")

	// ErrInvalidArgument means a required work, patron or loan was nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyReturned is re-exported for callers of this package.
	ErrAlreadyReturned = models.ErrAlreadyReturned
)
