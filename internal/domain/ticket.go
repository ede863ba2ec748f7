package domain

import "time"

// TicketType is an organizer-configured admission tier for an event.
// The invariant 0 <= Sold <= Quantity holds at all times; Sold only moves
// through registration admission and cancellation.
type TicketType struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price"` // forced to 0 while IsFree is true
	Quantity    int       `json:"quantity"`
	Sold        int       `json:"sold"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Remaining returns the number of unsold seats.
func (t TicketType) Remaining() int {
	return t.Quantity - t.Sold
}

// SellThrough returns Sold/Quantity, 0 when no quantity is configured.
func (t TicketType) SellThrough() float64 {
	if t.Quantity == 0 {
		return 0
	}
	return float64(t.Sold) / float64(t.Quantity)
}
