package domain

import "time"

// FilterCriteria holds the optional predicates applied to a ticket collection.
// A zero field means no constraint. CreatedFrom is inclusive, CreatedTo exclusive.
type FilterCriteria struct {
	Status      TicketStatus
	Priority    TicketPriority
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// IsZero reports whether no predicate is set.
func (c FilterCriteria) IsZero() bool {
	return c.Status == "" && c.Priority == "" && c.Search == "" && c.CreatedFrom == nil && c.CreatedTo == nil
}

// Equal compares two criteria by value.
func (c FilterCriteria) Equal(other FilterCriteria) bool {
	return c.Status == other.Status &&
		c.Priority == other.Priority &&
		c.Search == other.Search &&
		sameTime(c.CreatedFrom, other.CreatedFrom) &&
		sameTime(c.CreatedTo, other.CreatedTo)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// PageState tracks the visible page of a filtered collection.
type PageState struct {
	Page int
	Size int
}

// NewPageState returns page 1 with the given size (minimum 1).
func NewPageState(size int) PageState {
	if size < 1 {
		size = 1
	}
	return PageState{Page: 1, Size: size}
}

// WithSize changes the page size and resets to the first page.
func (p PageState) WithSize(size int) PageState {
	return NewPageState(size)
}

// Reset returns to the first page keeping the size.
func (p PageState) Reset() PageState {
	return NewPageState(p.Size)
}

// Clamp pulls the page back into [1, totalPages].
func (p PageState) Clamp(totalPages int) PageState {
	if totalPages < 1 {
		totalPages = 1
	}
	if p.Page > totalPages {
		p.Page = totalPages
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}
