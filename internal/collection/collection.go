// Package collection owns the catalog's per-work copy counts and drives the
// loan lifecycle (checkout, return, renew) and late-fee computation.
//
// A Collection is not safe for concurrent use. Checkout reads the count and
// decrements it in two steps, so callers sharing one Collection across
// goroutines must serialize calls themselves.
package collection

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"lending/internal/models"
)

const (
	// DefaultLoanDays is the loan period used when the caller has no preference
	DefaultLoanDays = 7

	// DefaultFeePerDay is the late fee charged per calendar day
	DefaultFeePerDay = 1.0
)

// entry is one catalog slot. work is the first instance added for the key.
type entry struct {
	work  *models.Work
	count int
}

// Collection is the authoritative record of loanable copies per work.
// It does not keep loan history.
type Collection struct {
	entries map[models.WorkKey]*entry
	order   []models.WorkKey

	now       func() time.Time
	feePerDay float64
	logger    *zap.Logger
}

// Option configures a Collection
type Option func(*Collection)

// WithClock replaces the clock used for checkout dates
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collection) {
		c.logger = logger
	}
}

// WithFeePerDay sets the late fee rate
func WithFeePerDay(fee float64) Option {
	return func(c *Collection) {
		c.feePerDay = fee
	}
}

// New creates an empty collection
func New(opts ...Option) *Collection {
	c := &Collection{
		entries:   make(map[models.WorkKey]*entry),
		order:     make([]models.WorkKey, 0),
		now:       time.Now,
		feePerDay: DefaultFeePerDay,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddCopy adds one copy of work to the catalog
func (c *Collection) AddCopy(work *models.Work) error {
	if work == nil {
		return fmt.Errorf("add copy: %w: nil work", ErrInvalidArgument)
	}
	c.increment(work)
	c.logger.Debug("Copy added",
		zap.String("title", work.Title),
		zap.String("author", work.Author),
		zap.Int("count", c.Count(work)),
	)
	return nil
}

// RemoveCopy removes one copy of work. Removing an unknown work is a no-op.
// The last copy removes the work from the catalog, and so does a work held
// at zero by outstanding checkouts; a later Return lists it again at one.
func (c *Collection) RemoveCopy(work *models.Work) {
	if work == nil {
		return
	}
	key := work.Key()
	e, ok := c.entries[key]
	if !ok {
		return
	}

	if e.count > 1 {
		e.count--
	} else {
		c.delete(key)
	}
	c.logger.Debug("Copy removed",
		zap.String("title", work.Title),
		zap.String("author", work.Author),
		zap.Int("count", c.Count(work)),
	)
}

// Count returns the number of loanable copies of work, zero when unlisted
func (c *Collection) Count(work *models.Work) int {
	if work == nil {
		return 0
	}
	if e, ok := c.entries[work.Key()]; ok {
		return e.count
	}
	return 0
}

// Contains reports whether the work is listed in the catalog
func (c *Collection) Contains(work *models.Work) bool {
	if work == nil {
		return false
	}
	_, ok := c.entries[work.Key()]
	return ok
}

// Available reports whether at least one copy can be checked out
func (c *Collection) Available(work *models.Work) bool {
	return c.Count(work) > 0
}

// Len returns the number of listed works
func (c *Collection) Len() int {
	return len(c.order)
}

// Checkout lends one copy of work to patron for loanDays days. The count may
// drop to zero, in which case the work stays listed.
func (c *Collection) Checkout(work *models.Work, patron *models.Patron, loanDays int) (*models.Loan, error) {
	if work == nil || patron == nil {
		return nil, fmt.Errorf("checkout: %w: work and patron are required", ErrInvalidArgument)
	}

	e, ok := c.entries[work.Key()]
	if !ok || e.count <= 0 {
		c.logger.Info("Checkout refused, no copy available",
			zap.String("title", work.Title),
			zap.String("author", work.Author),
			zap.String("patron", patron.Name),
		)
		return nil, fmt.Errorf("checkout %q by %s: %w", work.Title, work.Author, ErrUnavailable)
	}
	e.count--

	checkoutDate := c.now()
	dueDate := checkoutDate.AddDate(0, 0, loanDays)
	loan := models.NewLoan(work, patron, checkoutDate, dueDate)

	c.logger.Info("Work checked out",
		zap.String("loan_id", loan.ID.String()),
		zap.String("title", work.Title),
		zap.String("patron", patron.Name),
		zap.Time("due_date", dueDate),
		zap.Int("remaining", e.count),
	)
	return loan, nil
}

// Return records the loan as returned at returnDate and puts the copy back.
// Neither the loan's origin nor the ordering of returnDate against the
// checkout date is checked.
func (c *Collection) Return(loan *models.Loan, returnDate time.Time) error {
	if loan == nil || loan.Work == nil {
		return fmt.Errorf("return: %w: loan with a work is required", ErrInvalidArgument)
	}
	if err := loan.MarkReturned(returnDate); err != nil {
		return fmt.Errorf("return %q: %w", loan.Work.Title, err)
	}
	c.increment(loan.Work)

	days, _ := loan.DaysLate()
	c.logger.Info("Work returned",
		zap.String("loan_id", loan.ID.String()),
		zap.String("title", loan.Work.Title),
		zap.Int("days_late", days),
		zap.Int("available", c.Count(loan.Work)),
	)
	return nil
}

// Renew moves the due date of an open loan forward by extraDays. Zero is
// accepted; a negative value that would move the date backward is not.
func (c *Collection) Renew(loan *models.Loan, extraDays int) error {
	if loan == nil {
		return fmt.Errorf("renew: %w: nil loan", ErrInvalidArgument)
	}
	if loan.IsReturned() {
		return fmt.Errorf("renew: %w", ErrAlreadyReturned)
	}

	candidate := loan.DueDate.AddDate(0, 0, extraDays)
	if candidate.Before(loan.DueDate) {
		return fmt.Errorf("renew by %d days: %w: due date %s would move back to %s",
			extraDays, ErrInvalidRenewal,
			loan.DueDate.Format("2006-01-02"), candidate.Format("2006-01-02"))
	}
	loan.DueDate = candidate

	c.logger.Info("Loan renewed",
		zap.String("loan_id", loan.ID.String()),
		zap.Int("extra_days", extraDays),
		zap.Time("due_date", candidate),
	)
	return nil
}

// LateFee returns the fee owed by an open loan at ref. Lateness is counted
// in calendar days, ignoring time of day. Returned loans owe nothing here.
func (c *Collection) LateFee(loan *models.Loan, ref time.Time) float64 {
	if loan == nil || loan.IsReturned() {
		return 0
	}
	days := calendarDaysBetween(loan.DueDate, ref)
	if days <= 0 {
		return 0
	}
	return float64(days) * c.feePerDay
}

// FeePerDay returns the late fee rate
func (c *Collection) FeePerDay() float64 {
	return c.feePerDay
}

// Now returns the collection clock's current time
func (c *Collection) Now() time.Time {
	return c.now()
}

func (c *Collection) increment(work *models.Work) {
	key := work.Key()
	if e, ok := c.entries[key]; ok {
		e.count++
		return
	}
	c.entries[key] = &entry{work: work, count: 1}
	c.order = append(c.order, key)
}

func (c *Collection) delete(key models.WorkKey) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// calendarDaysBetween counts calendar days from -> to using each time's own
// date, so 23:59 and 00:01 the next day are one day apart.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
