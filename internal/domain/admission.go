package domain

type AdmissionKind string

const (
	AdmissionGeneral  AdmissionKind = "general"
	AdmissionTicketed AdmissionKind = "ticketed"
)

// Admission says how a user wants into an event: general admission for
// events with no configured ticket types, or a claim against one ticket
// type's inventory.
type Admission struct {
	Kind         AdmissionKind
	TicketTypeID string // set only for AdmissionTicketed
}

func GeneralAdmission() Admission {
	return Admission{Kind: AdmissionGeneral}
}

func TicketedAdmission(ticketTypeID string) Admission {
	return Admission{Kind: AdmissionTicketed, TicketTypeID: ticketTypeID}
}
