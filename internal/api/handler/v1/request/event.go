package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hawtsauce/gatherly-api/internal/service"
)

type CreateEventRequest struct {
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	Address            string    `json:"address"`
	Category           string    `json:"category"`
	BackgroundImageURL string    `json:"background_image_url"`
	TargetDate         time.Time `json:"target_date"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(3, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Time, validation.Required),
		validation.Field(&req.Address, validation.Required, validation.Length(3, 200)),
	)
	if err != nil {
		return err
	}

	if req.TargetDate.IsZero() {
		return errors.New("target_date: cannot be blank")
	}

	return nil
}

func (req *CreateEventRequest) ToDraft() service.EventDraft {
	return service.EventDraft{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		Time:               req.Time,
		Address:            req.Address,
		Category:           req.Category,
		BackgroundImageURL: req.BackgroundImageURL,
		TargetDate:         req.TargetDate,
	}
}

type UpdateEventRequest struct {
	CreateEventRequest
}
