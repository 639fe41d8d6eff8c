// Package filter holds the pure list operations behind every dashboard view:
// criteria matching and pagination. Nothing here touches controller state.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Apply returns the tickets matching every non-empty predicate of c, in input order.
// Zero criteria return the input unchanged.
func Apply(tickets []domain.Ticket, c domain.FilterCriteria) []domain.Ticket {
	if c.IsZero() {
		return tickets
	}
	needle := normalizeSearch(c.Search)
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if matches(t, c, needle) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether t satisfies every non-empty predicate of c.
func Matches(t domain.Ticket, c domain.FilterCriteria) bool {
	return matches(t, c, normalizeSearch(c.Search))
}

func matches(t domain.Ticket, c domain.FilterCriteria, needle string) bool {
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.Priority != "" && t.Priority != c.Priority {
		return false
	}
	if needle != "" && !strings.Contains(t.SearchText(), needle) {
		return false
	}
	if c.CreatedFrom != nil && t.CreatedAt.Before(*c.CreatedFrom) {
		return false
	}
	if c.CreatedTo != nil && !t.CreatedAt.Before(*c.CreatedTo) {
		return false
	}
	return true
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

const dateLayout = "2006-01-02"

// ParseDateRange parses the date picker value "2026-01-01 to 2026-01-31" (or a
// single date) into a half-open range covering the whole last day.
// An empty value yields nil bounds.
func ParseDateRange(value string, loc *time.Location) (*time.Time, *time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	parts := strings.Split(value, " to ")
	if len(parts) > 2 {
		return nil, nil, fmt.Errorf("invalid date range %q", value)
	}
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(parts[0]), loc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid range start: %w", err)
	}
	last := from
	if len(parts) == 2 {
		last, err = time.ParseInLocation(dateLayout, strings.TrimSpace(parts[1]), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid range end: %w", err)
		}
	}
	if last.Before(from) {
		from, last = last, from
	}
	to := last.AddDate(0, 0, 1)
	return &from, &to, nil
}
