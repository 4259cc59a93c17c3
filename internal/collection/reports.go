package collection

import (
	"time"

	"lending/internal/models"
	"lending/internal/report"
)

// Report titles
const (
	InventoryTitle     = "Inventory"
	DebtsTitle         = "Outstanding debts"
	HistoryTitlePrefix = "Loan history: "
)

// InventoryReport lists every catalog entry with its current count, in the
// order the works were first added.
func (c *Collection) InventoryReport() *report.Report {
	r := report.New(InventoryTitle,
		report.Column{Name: "Title", Kind: report.Text},
		report.Column{Name: "Author", Kind: report.Text},
		report.Column{Name: "Year", Kind: report.Integer},
		report.Column{Name: "Category", Kind: report.Text},
		report.Column{Name: "Available", Kind: report.Integer},
	)
	for _, key := range c.order {
		e := c.entries[key]
		r.AddRow(e.work.Title, e.work.Author, e.work.Year, e.work.Category, e.count)
	}
	return r
}

// OutstandingDebtsReport lists open loans whose due date is before ref.
// Unlike LateFee, the comparison uses full timestamps and days late are
// whole 24h periods. Rows follow the order of loans and are not aggregated.
func (c *Collection) OutstandingDebtsReport(loans []*models.Loan, ref time.Time) *report.Report {
	r := report.New(DebtsTitle,
		report.Column{Name: "Patron", Kind: report.Text},
		report.Column{Name: "Work", Kind: report.Text},
		report.Column{Name: "Due", Kind: report.Date},
		report.Column{Name: "Days late", Kind: report.Integer},
		report.Column{Name: "Fee", Kind: report.Money},
	)
	for _, loan := range loans {
		if loan == nil || !loan.IsLate(ref) {
			continue
		}
		daysLate := models.DaysBetween(loan.DueDate, ref)
		r.AddRow(patronName(loan.Patron), workTitle(loan.Work), loan.DueDate, daysLate, float64(daysLate)*c.feePerDay)
	}
	return r
}

// OutstandingDebtsReportNow is OutstandingDebtsReport at the collection clock's time
func (c *Collection) OutstandingDebtsReportNow(loans []*models.Loan) *report.Report {
	return c.OutstandingDebtsReport(loans, c.now())
}

// PatronHistoryReport lists the loans taken by patron, matched by identity
func (c *Collection) PatronHistoryReport(loans []*models.Loan, patron *models.Patron) *report.Report {
	title := HistoryTitlePrefix
	if patron != nil {
		title += patron.Name
	}
	r := report.New(title,
		report.Column{Name: "Work", Kind: report.Text},
		report.Column{Name: "Checkout", Kind: report.Date},
		report.Column{Name: "Due", Kind: report.Date},
		report.Column{Name: "Returned", Kind: report.Bool},
		report.Column{Name: "Return date", Kind: report.Date},
	)
	for _, loan := range loans {
		if loan == nil || !loan.Patron.Equal(patron) {
			continue
		}
		r.AddRow(workTitle(loan.Work), loan.CheckoutDate, loan.DueDate, loan.IsReturned(), loan.ReturnDate)
	}
	return r
}

func patronName(p *models.Patron) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func workTitle(w *models.Work) string {
	if w == nil {
		return ""
	}
	return w.Title
}
