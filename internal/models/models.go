package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is assigned once when an entity is built and never changes
type Identity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func newIdentity() Identity {
	return Identity{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}

// WorkKey is the catalog key of a work. Two works with the same title and
// author are the same catalog entry regardless of their identity.
type WorkKey struct {
	Title  string
	Author string
}

// Work represents a catalog item (book, film, ...)
type Work struct {
	Identity

	Title    string
	Author   string
	Year     int
	Category string

	// Quantity is a display-only stock figure. Availability lives in the
	// collection and is never synced back here.
	Quantity int
}

// NewWork creates a work with a display quantity of 1
func NewWork(title, author string, year int, category string) *Work {
	return NewWorkWithQuantity(title, author, year, category, 1)
}

// NewWorkWithQuantity creates a work with the given display quantity
func NewWorkWithQuantity(title, author string, year int, category string, quantity int) *Work {
	return &Work{
		Identity: newIdentity(),
		Title:    title,
		Author:   author,
		Year:     year,
		Category: category,
		Quantity: quantity,
	}
}

// Key returns the catalog key of the work
func (w *Work) Key() WorkKey {
	return WorkKey{Title: w.Title, Author: w.Author}
}

// SameWork reports whether both works share a catalog key
func (w *Work) SameWork(other *Work) bool {
	if w == nil || other == nil {
		return false
	}
	return w.Key() == other.Key()
}

// HasDisplayQuantity reports whether the display quantity is positive.
// It is not an availability check.
func (w *Work) HasDisplayQuantity() bool {
	return w.Quantity > 0
}

func (w *Work) String() string {
	return fmt.Sprintf("%s (%d) - %s | Category: %s | Qty: %d",
		w.Title, w.Year, w.Author, w.Category, w.Quantity)
}

// Patron represents a person who may borrow works
type Patron struct {
	Identity

	Name  string
	Email string
}

// NewPatron creates a new patron
func NewPatron(name, email string) *Patron {
	return &Patron{
		Identity: newIdentity(),
		Name:     name,
		Email:    email,
	}
}

// Equal compares patrons by identity
func (p *Patron) Equal(other *Patron) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID
}

// Less orders patrons by case-insensitive name
func (p *Patron) Less(other *Patron) bool {
	return strings.ToLower(p.Name) < strings.ToLower(other.Name)
}

func (p *Patron) String() string {
	return p.Name
}

// SortPatrons sorts patrons for display
func SortPatrons(patrons []*Patron) {
	sort.SliceStable(patrons, func(i, j int) bool {
		return patrons[i].Less(patrons[j])
	})
}
