package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lending/internal/models"
)

var checkoutTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return checkoutTime
}

func newTestCollection() *Collection {
	return New(WithClock(fixedClock), WithLogger(zap.NewNop()))
}

func pooEssencial() *models.Work {
	return models.NewWork("POO Essencial", "Ana Silva", 2025, "Livro")
}

func TestCollection_AddThenRemoveIsNetZero(t *testing.T) {
	works := []*models.Work{
		pooEssencial(),
		models.NewWork("Go in Action", "William Kennedy", 2015, "Livro"),
		models.NewWork("", "", 0, ""),
	}

	for _, w := range works {
		c := newTestCollection()
		require.NoError(t, c.AddCopy(w))
		c.RemoveCopy(w)

		assert.False(t, c.Contains(w), "work %q should be gone", w.Title)
		assert.Equal(t, 0, c.Len())
	}
}

func TestCollection_AddCopyDeduplicatesByTitleAndAuthor(t *testing.T) {
	c := newTestCollection()
	first := pooEssencial()
	second := models.NewWork("POO Essencial", "Ana Silva", 2024, "Ebook")

	require.NoError(t, c.AddCopy(first))
	require.NoError(t, c.AddCopy(second))

	assert.Equal(t, 2, c.Count(first))
	assert.Equal(t, 2, c.Count(second))
	assert.Equal(t, 1, c.Len())
}

func TestCollection_AddCopyNilWork(t *testing.T) {
	c := newTestCollection()

	err := c.AddCopy(nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestCollection_RemoveCopy(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()

	// Absent work: no-op
	c.RemoveCopy(w)
	assert.False(t, c.Contains(w))

	require.NoError(t, c.AddCopy(w))
	require.NoError(t, c.AddCopy(w))

	c.RemoveCopy(w)
	assert.Equal(t, 1, c.Count(w))
	assert.True(t, c.Contains(w))

	c.RemoveCopy(w)
	assert.False(t, c.Contains(w), "last copy removes the key instead of leaving zero")

	c.RemoveCopy(nil)
}

func TestCollection_CheckoutScenario(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	p := models.NewPatron("João", "joao@example.com")

	require.NoError(t, c.AddCopy(w))
	require.NoError(t, c.AddCopy(w))
	assert.Equal(t, 2, c.Count(w))

	_, err := c.Checkout(w, p, DefaultLoanDays)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count(w))

	_, err = c.Checkout(w, p, DefaultLoanDays)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Count(w))
	assert.True(t, c.Contains(w), "checked out work stays listed at zero")

	_, err = c.Checkout(w, p, DefaultLoanDays)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 0, c.Count(w))
}

func TestCollection_CheckoutUnknownWork(t *testing.T) {
	c := newTestCollection()

	loan, err := c.Checkout(pooEssencial(), models.NewPatron("João", ""), DefaultLoanDays)
	assert.Nil(t, loan)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestCollection_CheckoutNilArguments(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))

	_, err := c.Checkout(nil, models.NewPatron("João", ""), DefaultLoanDays)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = c.Checkout(w, nil, DefaultLoanDays)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, 1, c.Count(w))
}

func TestCollection_CheckoutDates(t *testing.T) {
	testCases := []struct {
		name     string
		loanDays int
		due      time.Time
	}{
		{name: "default", loanDays: DefaultLoanDays, due: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)},
		{name: "zero days", loanDays: 0, due: checkoutTime},
		{name: "negative days", loanDays: -2, due: time.Date(2025, 2, 27, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCollection()
			w := pooEssencial()
			p := models.NewPatron("João", "")
			require.NoError(t, c.AddCopy(w))

			loan, err := c.Checkout(w, p, tc.loanDays)
			require.NoError(t, err)

			assert.Equal(t, checkoutTime, loan.CheckoutDate)
			assert.Equal(t, tc.due, loan.DueDate)
			assert.Nil(t, loan.ReturnDate)
			assert.Same(t, w, loan.Work)
			assert.Same(t, p, loan.Patron)
		})
	}
}

func TestCollection_CheckoutReturnRoundTrip(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	require.NoError(t, c.AddCopy(w))
	require.NoError(t, c.AddCopy(w))
	before := c.Count(w)

	loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)
	require.NoError(t, c.Return(loan, checkoutTime.AddDate(0, 0, 2)))

	assert.Equal(t, before, c.Count(w))
	assert.True(t, loan.IsReturned())
}

func TestCollection_ReturnLateLoan(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))

	loan, err := c.Checkout(w, models.NewPatron("João", ""), 7)
	require.NoError(t, err)
	require.NoError(t, c.Return(loan, loan.DueDate.AddDate(0, 0, 5)))

	days, ok := loan.DaysLate()
	require.True(t, ok)
	assert.Equal(t, 5, days)

	for _, offset := range []int{0, 5, 30, 365} {
		assert.Equal(t, 0.0, c.LateFee(loan, loan.DueDate.AddDate(0, 0, offset)))
	}
}

func TestCollection_ReturnUnknownWorkInsertsIt(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	loan := models.NewLoan(w, models.NewPatron("João", ""), checkoutTime, checkoutTime.AddDate(0, 0, 7))

	require.NoError(t, c.Return(loan, checkoutTime.AddDate(0, 0, 1)))

	assert.Equal(t, 1, c.Count(w))
}

func TestCollection_ReturnTwice(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))

	loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)

	firstReturn := checkoutTime.AddDate(0, 0, 3)
	require.NoError(t, c.Return(loan, firstReturn))
	assert.Equal(t, 1, c.Count(w))

	err = c.Return(loan, checkoutTime.AddDate(0, 0, 9))
	assert.True(t, errors.Is(err, ErrAlreadyReturned))
	assert.Equal(t, 1, c.Count(w), "second return must not add a copy")
	assert.Equal(t, firstReturn, *loan.ReturnDate)
}

func TestCollection_ReturnNilLoan(t *testing.T) {
	c := newTestCollection()

	assert.True(t, errors.Is(c.Return(nil, checkoutTime), ErrInvalidArgument))
}

func TestCollection_Renew(t *testing.T) {
	testCases := []struct {
		name      string
		extraDays int
		wantErr   error
		wantDue   time.Time
	}{
		{name: "zero days keeps date", extraDays: 0, wantDue: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)},
		{name: "one week", extraDays: 7, wantDue: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)},
		{name: "negative regresses", extraDays: -1, wantErr: ErrInvalidRenewal, wantDue: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCollection()
			w := pooEssencial()
			require.NoError(t, c.AddCopy(w))
			loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
			require.NoError(t, err)

			err = c.Renew(loan, tc.extraDays)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantDue, loan.DueDate)
		})
	}
}

func TestCollection_RenewIsNonDecreasing(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)

	previous := loan.DueDate
	for _, extra := range []int{0, 1, 3, 0, 14} {
		require.NoError(t, c.Renew(loan, extra))
		assert.False(t, loan.DueDate.Before(previous))
		previous = loan.DueDate
	}
	assert.Equal(t, checkoutTime.AddDate(0, 0, 7+18), loan.DueDate)
}

func TestCollection_RenewReturnedLoan(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)
	require.NoError(t, c.Return(loan, checkoutTime.AddDate(0, 0, 1)))

	err = c.Renew(loan, 3)
	assert.True(t, errors.Is(err, ErrAlreadyReturned))
	assert.True(t, errors.Is(c.Renew(nil, 3), ErrInvalidArgument))
}

func TestCollection_LateFeeUnreturned(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), 7)
	require.NoError(t, err)

	assert.Equal(t, 3.0, c.LateFee(loan, checkoutTime.AddDate(0, 0, 10)))
	assert.Equal(t, 0.0, c.LateFee(loan, checkoutTime.AddDate(0, 0, 7)))
	assert.Equal(t, 0.0, c.LateFee(loan, checkoutTime))
	assert.Equal(t, 0.0, c.LateFee(nil, checkoutTime))
}

func TestCollection_LateFeeIsMonotonic(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), 7)
	require.NoError(t, err)

	previous := 0.0
	for hours := 0; hours <= 24*30; hours += 5 {
		fee := c.LateFee(loan, checkoutTime.Add(time.Duration(hours)*time.Hour))
		assert.GreaterOrEqual(t, fee, previous)
		previous = fee
	}
}

func TestCollection_LateFeeRate(t *testing.T) {
	c := New(WithClock(fixedClock), WithFeePerDay(2.5))
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), 7)
	require.NoError(t, err)

	assert.Equal(t, 2.5, c.FeePerDay())
	assert.Equal(t, 5.0, c.LateFee(loan, checkoutTime.AddDate(0, 0, 9)))
}

// LateFee compares calendar dates while OutstandingDebtsReport compares full
// timestamps. Both behaviors are kept; this test pins the difference.
func TestCollection_LateFeeAndDebtsReportDisagreeOnTimeOfDay(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))
	loan, err := c.Checkout(w, models.NewPatron("João", ""), 7)
	require.NoError(t, err)
	loans := []*models.Loan{loan}

	// Same calendar day as due, one hour later
	sameDay := loan.DueDate.Add(time.Hour)
	assert.Equal(t, 0.0, c.LateFee(loan, sameDay))
	debts := c.OutstandingDebtsReport(loans, sameDay)
	require.Equal(t, 1, debts.Len())
	assert.Equal(t, 0, debts.Rows[0][3])
	assert.Equal(t, 0.0, debts.Rows[0][4])

	// Next calendar day, less than 24h after due
	nextDay := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, c.LateFee(loan, nextDay))
	debts = c.OutstandingDebtsReport(loans, nextDay)
	require.Equal(t, 1, debts.Len())
	assert.Equal(t, 0, debts.Rows[0][3])
}

func TestCollection_LogsRefusedCheckout(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(WithClock(fixedClock), WithLogger(zap.New(core)))

	_, err := c.Checkout(pooEssencial(), models.NewPatron("João", ""), DefaultLoanDays)
	require.Error(t, err)

	entries := logs.FilterMessage("Checkout refused, no copy available").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "POO Essencial", entries[0].ContextMap()["title"])
}

func TestCollection_AvailableVersusContains(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()

	assert.False(t, c.Available(w))
	assert.False(t, c.Available(nil))

	require.NoError(t, c.AddCopy(w))
	assert.True(t, c.Available(w))

	_, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)

	assert.False(t, c.Available(w), "no copy left to lend")
	assert.True(t, c.Contains(w), "work stays listed at zero")
}

func TestCollection_RemoveCopyAtZeroThenReturn(t *testing.T) {
	c := newTestCollection()
	w := pooEssencial()
	require.NoError(t, c.AddCopy(w))

	loan, err := c.Checkout(w, models.NewPatron("João", ""), DefaultLoanDays)
	require.NoError(t, err)
	require.True(t, c.Contains(w))

	// A listed work at zero copies is removed like a single copy
	c.RemoveCopy(w)
	assert.False(t, c.Contains(w))

	// The outstanding loan brings the work back at one copy
	require.NoError(t, c.Return(loan, checkoutTime.AddDate(0, 0, 2)))
	assert.True(t, c.Contains(w))
	assert.Equal(t, 1, c.Count(w))
}
