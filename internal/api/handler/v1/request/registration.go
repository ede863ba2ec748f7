package request

import (
	"github.com/hawtsauce/gatherly-api/internal/domain"
)

// RegisterRequest carries an optional ticket type. When ticket_type_id
// is absent the registration is general admission.
type RegisterRequest struct {
	TicketTypeID *string `json:"ticket_type_id"`
}

func (req *RegisterRequest) Validate() error {
	return nil
}

func (req *RegisterRequest) ToAdmission() domain.Admission {
	if req.TicketTypeID == nil || *req.TicketTypeID == "" {
		return domain.GeneralAdmission()
	}

	return domain.TicketedAdmission(*req.TicketTypeID)
}
