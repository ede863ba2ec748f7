package domain

import "time"

type Event struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Date               string       `json:"date"` // display string, e.g. "Saturday, March 14"
	Time               string       `json:"time"` // display string, e.g. "7:00 PM"
	Address            string       `json:"address"`
	Category           string       `json:"category"`
	BackgroundImageURL string       `json:"background_image_url"`
	TargetDate         time.Time    `json:"target_date"` // the instant used for upcoming/past comparisons
	CreatedBy          string       `json:"created_by"`
	TicketTypes        []TicketType `json:"ticket_types,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// IsPast reports whether the event's target date is behind the given instant.
func (e Event) IsPast(now time.Time) bool {
	return e.TargetDate.Before(now)
}

// OwnedBy reports whether the user may perform owner-only operations on the event.
func (e Event) OwnedBy(u User) bool {
	return e.CreatedBy == u.ID || u.IsAdmin()
}
