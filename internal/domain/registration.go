package domain

import "time"

// Registration records that one user claimed one seat at one event,
// optionally against a specific ticket type. At most one exists per
// (user, event) pair.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	TicketTypeID *string   `json:"ticket_type_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`

	Event    *Event `json:"event,omitempty"`
	Attendee *User  `json:"attendee,omitempty"`
}
