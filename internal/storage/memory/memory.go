package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"lending/internal/models"
)

// Store is an in-memory implementation of storage.LoanStore
type Store struct {
	mu      sync.RWMutex
	patrons map[uuid.UUID]*models.Patron
	loans   []*models.Loan
	loanIDs map[uuid.UUID]struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		patrons: make(map[uuid.UUID]*models.Patron),
		loans:   make([]*models.Loan, 0),
		loanIDs: make(map[uuid.UUID]struct{}),
	}
}

// AddPatron registers a patron. Adding the same patron twice is a no-op.
func (s *Store) AddPatron(ctx context.Context, patron *models.Patron) error {
	if patron == nil {
		return fmt.Errorf("failed to add patron: nil patron")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.patrons[patron.ID] = patron
	return nil
}

// ListPatrons returns all patrons sorted by name
func (s *Store) ListPatrons(ctx context.Context) ([]*models.Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patrons := make([]*models.Patron, 0, len(s.patrons))
	for _, p := range s.patrons {
		patrons = append(patrons, p)
	}

	models.SortPatrons(patrons)
	return patrons, nil
}

// RecordLoan appends a loan to the history. Loans are stored by pointer, so
// later returns and renewals are visible without recording again.
func (s *Store) RecordLoan(ctx context.Context, loan *models.Loan) error {
	if loan == nil {
		return fmt.Errorf("failed to record loan: nil loan")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loanIDs[loan.ID]; ok {
		return fmt.Errorf("failed to record loan: loan %s already recorded", loan.ID)
	}
	s.loanIDs[loan.ID] = struct{}{}
	s.loans = append(s.loans, loan)
	return nil
}

// ListLoans returns the recorded loans in insertion order
func (s *Store) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]*models.Loan, len(s.loans))
	copy(loans, s.loans)
	return loans, nil
}

// LoansByPatron returns the loans taken by patron
func (s *Store) LoansByPatron(ctx context.Context, patron *models.Patron) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var loans []*models.Loan
	for _, loan := range s.loans {
		if loan.Patron.Equal(patron) {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

// Close does nothing for the in-memory store
func (s *Store) Close() error {
	return nil
}
