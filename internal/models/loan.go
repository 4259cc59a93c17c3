package models

import (
	"errors"
	"fmt"
	"time"
)

const day = 24 * time.Hour

// ErrAlreadyReturned is returned when a loan that has a return date is
// returned or renewed again.
var ErrAlreadyReturned = errors.New("loan already returned")

// Loan represents one checkout of a work by a patron
type Loan struct {
	Identity

	Work         *Work
	Patron       *Patron
	CheckoutDate time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
}

// NewLoan creates an open loan
func NewLoan(work *Work, patron *Patron, checkoutDate, dueDate time.Time) *Loan {
	return &Loan{
		Identity:     newIdentity(),
		Work:         work,
		Patron:       patron,
		CheckoutDate: checkoutDate,
		DueDate:      dueDate,
	}
}

// IsReturned reports whether the loan has a return date
func (l *Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// IsLate reports whether the loan is still open past its due date at ref
func (l *Loan) IsLate(ref time.Time) bool {
	return !l.IsReturned() && l.DueDate.Before(ref)
}

// DaysLate returns how many whole days after the due date the loan was
// returned. Early returns are negative. ok is false while the loan is open.
func (l *Loan) DaysLate() (days int, ok bool) {
	if l.ReturnDate == nil {
		return 0, false
	}
	return DaysBetween(l.DueDate, *l.ReturnDate), true
}

// MarkReturned sets the return date. It can only happen once.
func (l *Loan) MarkReturned(at time.Time) error {
	if l.ReturnDate != nil {
		return fmt.Errorf("%w on %s", ErrAlreadyReturned, l.ReturnDate.Format("2006-01-02"))
	}
	l.ReturnDate = &at
	return nil
}

func (l *Loan) String() string {
	return fmt.Sprintf("Work: %s | Checkout: %s | Due: %s",
		l.Work.Title, l.CheckoutDate.Format("02/01/2006"), l.DueDate.Format("02/01/2006"))
}

// DaysBetween returns the number of whole days from -> to, rounding toward
// negative infinity.
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
