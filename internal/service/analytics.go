package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hawtsauce/gatherly-api/internal/domain"
)

const topEventStats = 5

type EventStat struct {
	EventID       string `json:"event_id"`
	Title         string `json:"title"`
	Registrations int64  `json:"registrations"`
}

type OrganizerStats struct {
	TotalEvents        int   `json:"total_events"`
	TotalRegistrations int64 `json:"total_registrations"`
	UpcomingEvents     int   `json:"upcoming_events"`
	AvgRegistrations   int   `json:"avg_registrations"`
}

type DailyCount struct {
	Date  string `json:"date"` // weekday label, e.g. "Mon"
	Count int    `json:"count"`
}

type TicketTypeStat struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	Name        string  `json:"name"`
	IsFree      bool    `json:"is_free"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Sold        int     `json:"sold"`
	SellThrough float64 `json:"sell_through"`
}

type TicketStats struct {
	TotalTickets int              `json:"total_tickets"`
	TotalSold    int              `json:"total_sold"`
	TotalRevenue float64          `json:"total_revenue"`
	FreeTickets  int              `json:"free_tickets"`
	PaidTickets  int              `json:"paid_tickets"`
	TicketTypes  []TicketTypeStat `json:"ticket_types"`
}

type AttendeeInsights struct {
	TotalAttendees int `json:"total_attendees"`
	NewThisWeek    int `json:"new_this_week"`
	UniqueEvents   int `json:"unique_events"`
	AvgPerEvent    int `json:"avg_per_event"`
}

type AnalyticsRegistrationRepository interface {
	FindByEventIDs(ctx context.Context, eventIDs []string) ([]domain.Registration, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
}

type AnalyticsTicketTypeRepository interface {
	FindByEventIDs(ctx context.Context, eventIDs []string) ([]domain.TicketType, error)
}

// AnalyticsService derives organizer-facing counters from the stored
// events, ticket types and registrations. Everything here is a pure
// read-model projection; nothing feeds back into the write path.
type AnalyticsService struct {
	eventRepo  EventRepository
	regRepo    AnalyticsRegistrationRepository
	ticketRepo AnalyticsTicketTypeRepository

	now func() time.Time
}

func NewAnalyticsService(eventRepo EventRepository, regRepo AnalyticsRegistrationRepository, ticketRepo AnalyticsTicketTypeRepository) *AnalyticsService {
	return &AnalyticsService{
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		ticketRepo: ticketRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EventStats returns the organizer's top events by registration count.
func (s *AnalyticsService) EventStats(ctx context.Context, organizerID string) ([]EventStat, error) {
	events, err := s.eventRepo.FindByCreator(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindByCreator -> %w", err)
	}

	stats := make([]EventStat, 0, len(events))
	for _, event := range events {
		count, err := s.regRepo.CountByEventID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("s.regRepo.CountByEventID -> %w", err)
		}

		stats = append(stats, EventStat{
			EventID:       event.ID,
			Title:         truncateTitle(event.Title),
			Registrations: count,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Registrations > stats[j].Registrations
	})
	if len(stats) > topEventStats {
		stats = stats[:topEventStats]
	}

	return stats, nil
}

func (s *AnalyticsService) OrganizerStats(ctx context.Context, organizerID string) (OrganizerStats, error) {
	events, err := s.eventRepo.FindByCreator(ctx, organizerID)
	if err != nil {
		return OrganizerStats{}, fmt.Errorf("s.eventRepo.FindByCreator -> %w", err)
	}

	now := s.now()
	stats := OrganizerStats{
		TotalEvents: len(events),
	}

	for _, event := range events {
		if !event.IsPast(now) {
			stats.UpcomingEvents++
		}

		count, err := s.regRepo.CountByEventID(ctx, event.ID)
		if err != nil {
			return OrganizerStats{}, fmt.Errorf("s.regRepo.CountByEventID -> %w", err)
		}
		stats.TotalRegistrations += count
	}

	if len(events) > 0 {
		stats.AvgRegistrations = int(math.Round(float64(stats.TotalRegistrations) / float64(len(events))))
	}

	return stats, nil
}

// DailyRegistrations buckets the organizer's registrations into trailing
// midnight-to-midnight days ending today.
func (s *AnalyticsService) DailyRegistrations(ctx context.Context, organizerID string, days int) ([]DailyCount, error) {
	events, err := s.eventRepo.FindByCreator(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindByCreator -> %w", err)
	}

	buckets := make([]DailyCount, days)
	today := startOfDay(s.now())
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		buckets[i] = DailyCount{Date: day.Weekday().String()[:3]}
	}

	if len(events) == 0 {
		return buckets, nil
	}

	eventIDs := make([]string, len(events))
	for i, event := range events {
		eventIDs[i] = event.ID
	}

	registrations, err := s.regRepo.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("s.regRepo.FindByEventIDs -> %w", err)
	}

	windowStart := today.AddDate(0, 0, 1-days)
	for _, reg := range registrations {
		day := startOfDay(reg.RegisteredAt)
		if day.Before(windowStart) || day.After(today) {
			continue
		}

		idx := days - 1 - int(today.Sub(day).Hours()/24)
		if idx >= 0 && idx < days {
			buckets[idx].Count++
		}
	}

	return buckets, nil
}

func (s *AnalyticsService) TicketStats(ctx context.Context, organizerID string) (TicketStats, error) {
	events, err := s.eventRepo.FindByCreator(ctx, organizerID)
	if err != nil {
		return TicketStats{}, fmt.Errorf("s.eventRepo.FindByCreator -> %w", err)
	}

	stats := TicketStats{TicketTypes: []TicketTypeStat{}}
	if len(events) == 0 {
		return stats, nil
	}

	eventIDs := make([]string, len(events))
	for i, event := range events {
		eventIDs[i] = event.ID
	}

	ticketTypes, err := s.ticketRepo.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return TicketStats{}, fmt.Errorf("s.ticketRepo.FindByEventIDs -> %w", err)
	}

	for _, t := range ticketTypes {
		stats.TotalTickets += t.Quantity
		stats.TotalSold += t.Sold
		if t.IsFree {
			stats.FreeTickets++
		} else {
			stats.PaidTickets++
			stats.TotalRevenue += t.Price * float64(t.Sold)
		}

		stats.TicketTypes = append(stats.TicketTypes, TicketTypeStat{
			ID:          t.ID,
			EventID:     t.EventID,
			Name:        t.Name,
			IsFree:      t.IsFree,
			Price:       t.Price,
			Quantity:    t.Quantity,
			Sold:        t.Sold,
			SellThrough: t.SellThrough(),
		})
	}

	return stats, nil
}

func (s *AnalyticsService) AttendeeInsights(ctx context.Context, organizerID string) (AttendeeInsights, error) {
	events, err := s.eventRepo.FindByCreator(ctx, organizerID)
	if err != nil {
		return AttendeeInsights{}, fmt.Errorf("s.eventRepo.FindByCreator -> %w", err)
	}

	insights := AttendeeInsights{}
	if len(events) == 0 {
		return insights, nil
	}

	eventIDs := make([]string, len(events))
	for i, event := range events {
		eventIDs[i] = event.ID
	}

	registrations, err := s.regRepo.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return AttendeeInsights{}, fmt.Errorf("s.regRepo.FindByEventIDs -> %w", err)
	}

	oneWeekAgo := s.now().AddDate(0, 0, -7)
	uniqueEvents := make(map[string]struct{})
	for _, reg := range registrations {
		insights.TotalAttendees++
		if !reg.RegisteredAt.Before(oneWeekAgo) {
			insights.NewThisWeek++
		}
		uniqueEvents[reg.EventID] = struct{}{}
	}

	insights.UniqueEvents = len(uniqueEvents)
	if insights.UniqueEvents > 0 {
		insights.AvgPerEvent = int(math.Round(float64(insights.TotalAttendees) / float64(insights.UniqueEvents)))
	}

	return insights, nil
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= 20 {
		return title
	}
	return string(runes[:20]) + "..."
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
