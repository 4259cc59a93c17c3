package storage

import (
	"context"

	"lending/internal/models"
)

// LoanStore keeps the loan history and patron registry on behalf of the
// caller. The collection itself only tracks availability.
type LoanStore interface {
	// Patron operations
	AddPatron(ctx context.Context, patron *models.Patron) error
	// ListPatrons returns patrons ordered by case-insensitive name
	ListPatrons(ctx context.Context) ([]*models.Patron, error)

	// Loan operations
	RecordLoan(ctx context.Context, loan *models.Loan) error
	// ListLoans returns loans in the order they were recorded
	ListLoans(ctx context.Context) ([]*models.Loan, error)
	// LoansByPatron returns the loans of one patron, matched by identity
	LoansByPatron(ctx context.Context, patron *models.Patron) ([]*models.Loan, error)

	// Lifecycle
	Close() error
}
