package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawtsauce/gatherly-api/internal/domain"
)

type analyticsFixture struct {
	events  *fakeEventRepo
	tickets *fakeTicketRepo
	regs    *fakeRegistrationRepo
	svc     *AnalyticsService
	now     time.Time
	userSeq int
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()

	events := newFakeEventRepo()
	tickets := newFakeTicketRepo()
	regs := newFakeRegistrationRepo(tickets)

	svc := NewAnalyticsService(events, regs, tickets)
	now := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC) // a Wednesday
	svc.now = func() time.Time { return now }

	return &analyticsFixture{
		events:  events,
		tickets: tickets,
		regs:    regs,
		svc:     svc,
		now:     now,
	}
}

func (f *analyticsFixture) seedEvent(t *testing.T, title string, target time.Time) domain.Event {
	t.Helper()

	event, err := f.events.Create(context.Background(), domain.Event{
		Title:      title,
		TargetDate: target,
		CreatedBy:  "organizer-1",
	})
	require.NoError(t, err)

	return event
}

func (f *analyticsFixture) seedRegistrations(t *testing.T, eventID string, count int, at time.Time) {
	t.Helper()

	for i := 0; i < count; i++ {
		f.userSeq++
		_, err := f.regs.Admit(context.Background(), domain.Registration{
			EventID:      eventID,
			UserID:       fmt.Sprintf("user-%d", f.userSeq),
			RegisteredAt: at,
		})
		require.NoError(t, err)
	}
}

func TestEventStats_TopFiveAndTruncation(t *testing.T) {
	f := newAnalyticsFixture(t)

	longTitle := "An Extraordinarily Long Event Title"
	for i, count := range []int{3, 7, 1, 5, 2, 4} {
		title := fmt.Sprintf("Event %d", i)
		if i == 1 {
			title = longTitle
		}
		event := f.seedEvent(t, title, f.now.Add(24*time.Hour))
		f.seedRegistrations(t, event.ID, count, f.now.Add(-time.Hour))
	}

	stats, err := f.svc.EventStats(context.Background(), "organizer-1")
	require.NoError(t, err)

	// Six events, only the busiest five survive, ordered by registrations.
	require.Len(t, stats, 5)
	assert.Equal(t, int64(7), stats[0].Registrations)
	assert.Equal(t, "An Extraordinarily L...", stats[0].Title)
	assert.Equal(t, int64(1), stats[4].Registrations)
}

func TestOrganizerStats(t *testing.T) {
	f := newAnalyticsFixture(t)

	past := f.seedEvent(t, "Past", f.now.Add(-24*time.Hour))
	soon := f.seedEvent(t, "Soon", f.now.Add(24*time.Hour))
	later := f.seedEvent(t, "Later", f.now.Add(72*time.Hour))

	f.seedRegistrations(t, past.ID, 4, f.now.Add(-48*time.Hour))
	f.seedRegistrations(t, soon.ID, 3, f.now.Add(-time.Hour))
	f.seedRegistrations(t, later.ID, 1, f.now.Add(-time.Hour))

	stats, err := f.svc.OrganizerStats(context.Background(), "organizer-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, int64(8), stats.TotalRegistrations)
	assert.Equal(t, 2, stats.UpcomingEvents)
	assert.Equal(t, 3, stats.AvgRegistrations) // 8/3 rounds to 3
}

func TestOrganizerStats_Empty(t *testing.T) {
	f := newAnalyticsFixture(t)

	stats, err := f.svc.OrganizerStats(context.Background(), "organizer-1")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEvents)
	assert.Zero(t, stats.AvgRegistrations)
}

func TestDailyRegistrations(t *testing.T) {
	f := newAnalyticsFixture(t)
	event := f.seedEvent(t, "Event", f.now.Add(24*time.Hour))

	f.seedRegistrations(t, event.ID, 2, f.now.Add(-time.Hour))            // today
	f.seedRegistrations(t, event.ID, 1, f.now.AddDate(0, 0, -2))          // two days ago
	f.seedRegistrations(t, event.ID, 3, f.now.AddDate(0, 0, -8))          // outside the window
	f.seedRegistrations(t, event.ID, 1, f.now.AddDate(0, 0, 1).Add(time.Hour)) // tomorrow, excluded

	counts, err := f.svc.DailyRegistrations(context.Background(), "organizer-1", 7)
	require.NoError(t, err)
	require.Len(t, counts, 7)

	// Buckets run oldest to newest and carry weekday labels; now is a
	// Wednesday so the last bucket is Wed, the first is the previous Thu.
	assert.Equal(t, "Thu", counts[0].Date)
	assert.Equal(t, "Wed", counts[6].Date)

	assert.Equal(t, 2, counts[6].Count)
	assert.Equal(t, 1, counts[4].Count)

	total := 0
	for _, bucket := range counts {
		total += bucket.Count
	}
	assert.Equal(t, 3, total)
}

func TestDailyRegistrations_NoEvents(t *testing.T) {
	f := newAnalyticsFixture(t)

	counts, err := f.svc.DailyRegistrations(context.Background(), "organizer-1", 7)
	require.NoError(t, err)
	require.Len(t, counts, 7)
	for _, bucket := range counts {
		assert.Zero(t, bucket.Count)
	}
}

func TestTicketStats(t *testing.T) {
	f := newAnalyticsFixture(t)
	event := f.seedEvent(t, "Event", f.now.Add(24*time.Hour))

	seedType := func(name string, isFree bool, price float64, quantity, sold int) {
		_, err := f.tickets.Create(context.Background(), domain.TicketType{
			EventID:  event.ID,
			Name:     name,
			IsFree:   isFree,
			Price:    price,
			Quantity: quantity,
			Sold:     sold,
		})
		require.NoError(t, err)
	}
	seedType("Standard", false, 25, 100, 40)
	seedType("VIP", false, 100, 10, 10)
	seedType("Community", true, 0, 50, 20)

	stats, err := f.svc.TicketStats(context.Background(), "organizer-1")
	require.NoError(t, err)

	assert.Equal(t, 160, stats.TotalTickets)
	assert.Equal(t, 70, stats.TotalSold)
	assert.Equal(t, 1, stats.FreeTickets)
	assert.Equal(t, 2, stats.PaidTickets)
	// Free tickets contribute nothing to revenue.
	assert.InDelta(t, 2000.0, stats.TotalRevenue, 0.001)

	require.Len(t, stats.TicketTypes, 3)
	byName := map[string]TicketTypeStat{}
	for _, tt := range stats.TicketTypes {
		byName[tt.Name] = tt
	}
	assert.InDelta(t, 0.4, byName["Standard"].SellThrough, 0.001)
	assert.InDelta(t, 1.0, byName["VIP"].SellThrough, 0.001)
}

func TestSellThrough_ZeroQuantity(t *testing.T) {
	tt := domain.TicketType{Quantity: 0, Sold: 0}
	assert.Zero(t, tt.SellThrough())
}

func TestAttendeeInsights(t *testing.T) {
	f := newAnalyticsFixture(t)
	first := f.seedEvent(t, "First", f.now.Add(24*time.Hour))
	second := f.seedEvent(t, "Second", f.now.Add(48*time.Hour))

	f.seedRegistrations(t, first.ID, 3, f.now.AddDate(0, 0, -2))  // inside the week
	f.seedRegistrations(t, second.ID, 2, f.now.AddDate(0, 0, -10)) // before the week

	insights, err := f.svc.AttendeeInsights(context.Background(), "organizer-1")
	require.NoError(t, err)

	assert.Equal(t, 5, insights.TotalAttendees)
	assert.Equal(t, 3, insights.NewThisWeek)
	assert.Equal(t, 2, insights.UniqueEvents)
	assert.Equal(t, 3, insights.AvgPerEvent) // 5/2 rounds to 3
}

func TestAttendeeInsights_Empty(t *testing.T) {
	f := newAnalyticsFixture(t)

	insights, err := f.svc.AttendeeInsights(context.Background(), "organizer-1")
	require.NoError(t, err)
	assert.Zero(t, insights.TotalAttendees)
	assert.Zero(t, insights.AvgPerEvent)
}
