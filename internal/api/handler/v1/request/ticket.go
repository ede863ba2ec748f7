package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hawtsauce/gatherly-api/internal/service"
)

type CreateTicketTypeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsFree      bool    `json:"is_free"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (req *CreateTicketTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Price, validation.Min(0.0), validation.Max(1000000.0)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(100000)),
	)
}

func (req *CreateTicketTypeRequest) ToDraft() service.TicketTypeDraft {
	return service.TicketTypeDraft{
		Name:        req.Name,
		Description: req.Description,
		IsFree:      req.IsFree,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}

// UpdateTicketTypeRequest is a partial update; absent fields keep their
// current value. Bounds are re-checked by the service after the merge.
type UpdateTicketTypeRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsFree      *bool    `json:"is_free"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

func (req *UpdateTicketTypeRequest) ToPatch() service.TicketTypePatch {
	return service.TicketTypePatch{
		Name:        req.Name,
		Description: req.Description,
		IsFree:      req.IsFree,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}
