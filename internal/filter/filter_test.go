package filter

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var base = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func randomTickets(r *rand.Rand, n int) []domain.Ticket {
	titles := []string{"Login issue", "Password reset", "Refund request", "Slow dashboard", "LOGIN loop"}
	categories := []string{"Account", "Billing", "Technical"}
	tickets := make([]domain.Ticket, 0, n)
	for i := 0; i < n; i++ {
		tickets = append(tickets, domain.Ticket{
			ID:          int64(i + 1),
			Title:       titles[r.Intn(len(titles))],
			Description: fmt.Sprintf("details %d", i),
			Category:    categories[r.Intn(len(categories))],
			Status:      domain.TicketStatuses[r.Intn(len(domain.TicketStatuses))],
			Priority:    domain.TicketPriorities[r.Intn(len(domain.TicketPriorities))],
			CreatedAt:   base.Add(time.Duration(r.Intn(30*24)) * time.Hour),
		})
	}
	return tickets
}

func randomCriteria(r *rand.Rand) domain.FilterCriteria {
	var c domain.FilterCriteria
	if r.Intn(2) == 0 {
		c.Status = domain.TicketStatuses[r.Intn(len(domain.TicketStatuses))]
	}
	if r.Intn(2) == 0 {
		c.Priority = domain.TicketPriorities[r.Intn(len(domain.TicketPriorities))]
	}
	if r.Intn(2) == 0 {
		c.Search = []string{"login", "BILLING", "reset", " details 1"}[r.Intn(4)]
	}
	if r.Intn(3) == 0 {
		from := base.Add(time.Duration(r.Intn(10*24)) * time.Hour)
		to := from.Add(7 * 24 * time.Hour)
		c.CreatedFrom, c.CreatedTo = &from, &to
	}
	return c
}

func TestApplyIsOrderedSubsetSatisfyingCriteria(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		tickets := randomTickets(r, r.Intn(40))
		c := randomCriteria(r)

		got := Apply(tickets, c)

		// Subsequence check: walk the input once.
		idx := 0
		for _, g := range got {
			for idx < len(tickets) && tickets[idx].ID != g.ID {
				idx++
			}
			require.Less(t, idx, len(tickets), "result is not an ordered subset of the input")
			idx++
			assert.True(t, Matches(g, c))
		}
		// Completeness: everything that matches was kept.
		want := 0
		for _, tk := range tickets {
			if Matches(tk, c) {
				want++
			}
		}
		assert.Len(t, got, want)
	}
}

func TestApplyEmptyCriteriaIsIdentity(t *testing.T) {
	tickets := randomTickets(rand.New(rand.NewSource(7)), 25)
	assert.Equal(t, tickets, Apply(tickets, domain.FilterCriteria{}))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: 1, Title: "Login issue"},
		{ID: 2, Title: "Password reset"},
	}
	got := Apply(tickets, domain.FilterCriteria{Search: "login"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSearchCoversDescriptionAndCategory(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: 1, Title: "A", Description: "printer jammed"},
		{ID: 2, Title: "B", Category: "Printer"},
		{ID: 3, Title: "C"},
	}
	got := Apply(tickets, domain.FilterCriteria{Search: "PRINTER"})
	assert.Len(t, got, 2)
}

func TestCriteriaCombineWithAnd(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: 1, Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
		{ID: 2, Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow},
		{ID: 3, Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityHigh},
	}
	got := Apply(tickets, domain.FilterCriteria{Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestUnmatchedCriteriaYieldEmpty(t *testing.T) {
	tickets := []domain.Ticket{{ID: 1, Status: domain.TicketStatusOpen}}
	got := Apply(tickets, domain.FilterCriteria{Status: "Escalated"})
	assert.Empty(t, got)
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2026-10-01 to 2026-10-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC), *to)

	tickets := []domain.Ticket{
		{ID: 1, CreatedAt: time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2026, 10, 3, 23, 59, 0, 0, time.UTC)},
		{ID: 4, CreatedAt: time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)},
	}
	got := Apply(tickets, domain.FilterCriteria{CreatedFrom: from, CreatedTo: to})
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestParseDateRangeSingleDayAndErrors(t *testing.T) {
	from, to, err := ParseDateRange("2026-10-05", nil)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(*from))

	from, to, err = ParseDateRange("  ", nil)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = ParseDateRange("soon to later", nil)
	assert.Error(t, err)
}
