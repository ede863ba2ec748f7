package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository"
)

var (
	ErrTicketTypeNotFound = repository.ErrTicketTypeNotFound
	ErrQuantityBelowSold  = repository.ErrQuantityBelowSold
	ErrTicketTypeInUse    = repository.ErrTicketTypeInUse
	ErrNotEventOwner      = errors.New("user does not own this event")
)

// TicketTypeDraft carries the organizer-provided fields for a new ticket
// type. A free draft always stores price 0, whatever was typed into the
// price field.
type TicketTypeDraft struct {
	Name        string
	Description string
	IsFree      bool
	Price       float64
	Quantity    int
}

func (d TicketTypeDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&d.Description, validation.Length(0, 500)),
		validation.Field(&d.Price, validation.Min(0.0), validation.Max(1000000.0)),
		validation.Field(&d.Quantity, validation.Required, validation.Min(1), validation.Max(100000)),
	)
}

// TicketTypePatch is a partial update; nil fields keep their current value.
type TicketTypePatch struct {
	Name        *string
	Description *string
	IsFree      *bool
	Price       *float64
	Quantity    *int
}

type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error)
	FindByID(ctx context.Context, id string) (domain.TicketType, error)
	FindByEventID(ctx context.Context, eventID string) ([]domain.TicketType, error)
	Update(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error)
	Delete(ctx context.Context, id string) error
}

type TicketService struct {
	repo      TicketTypeRepository
	eventRepo EventRepository
}

func NewTicketService(repo TicketTypeRepository, eventRepo EventRepository) *TicketService {
	return &TicketService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

func (s *TicketService) CreateTicketType(ctx context.Context, eventID string, actor domain.User, draft TicketTypeDraft) (domain.TicketType, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.TicketType{}, ErrEventNotFound
		}

		return domain.TicketType{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if !event.OwnedBy(actor) {
		return domain.TicketType{}, ErrNotEventOwner
	}

	if draft.IsFree {
		draft.Price = 0
	}

	if err = draft.Validate(); err != nil {
		return domain.TicketType{}, err
	}

	created, err := s.repo.Create(ctx, domain.TicketType{
		EventID:     event.ID,
		Name:        draft.Name,
		Description: draft.Description,
		IsFree:      draft.IsFree,
		Price:       draft.Price,
		Quantity:    draft.Quantity,
		Sold:        0,
	})
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TicketService) UpdateTicketType(ctx context.Context, ticketTypeID string, actor domain.User, patch TicketTypePatch) (domain.TicketType, error) {
	current, err := s.repo.FindByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, ErrTicketTypeNotFound) {
			return domain.TicketType{}, ErrTicketTypeNotFound
		}

		return domain.TicketType{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.authorizeOwner(ctx, current.EventID, actor); err != nil {
		return domain.TicketType{}, err
	}

	merged := current
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.IsFree != nil {
		merged.IsFree = *patch.IsFree
	}
	if patch.Price != nil {
		merged.Price = *patch.Price
	}
	if patch.Quantity != nil {
		merged.Quantity = *patch.Quantity
	}

	// Flipping to free discards any price in the same patch.
	if merged.IsFree {
		merged.Price = 0
	}

	draft := TicketTypeDraft{
		Name:        merged.Name,
		Description: merged.Description,
		IsFree:      merged.IsFree,
		Price:       merged.Price,
		Quantity:    merged.Quantity,
	}
	if err = draft.Validate(); err != nil {
		return domain.TicketType{}, err
	}

	if merged.Quantity < current.Sold {
		return domain.TicketType{}, ErrQuantityBelowSold
	}

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		if errors.Is(err, ErrQuantityBelowSold) {
			return domain.TicketType{}, ErrQuantityBelowSold
		}

		return domain.TicketType{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *TicketService) DeleteTicketType(ctx context.Context, ticketTypeID string, actor domain.User) error {
	current, err := s.repo.FindByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, ErrTicketTypeNotFound) {
			return ErrTicketTypeNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.authorizeOwner(ctx, current.EventID, actor); err != nil {
		return err
	}

	if current.Sold > 0 {
		return ErrTicketTypeInUse
	}

	if err = s.repo.Delete(ctx, ticketTypeID); err != nil {
		if errors.Is(err, ErrTicketTypeInUse) {
			return ErrTicketTypeInUse
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *TicketService) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	ticketTypes, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return ticketTypes, nil
}

func (s *TicketService) authorizeOwner(ctx context.Context, eventID string, actor domain.User) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return ErrEventNotFound
		}

		return fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if !event.OwnedBy(actor) {
		return ErrNotEventOwner
	}

	return nil
}
