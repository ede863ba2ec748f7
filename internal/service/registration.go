package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository"
)

var (
	ErrRegistrationNotFound  = repository.ErrRegistrationNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrSoldOut               = repository.ErrSoldOut
	ErrCancellationForbidden = errors.New("user may not cancel this registration")
)

type RegistrationRepository interface {
	Admit(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	Remove(ctx context.Context, id string) (domain.Registration, error)
	FindByID(ctx context.Context, id string) (domain.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (domain.Registration, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Registration, error)
	FindByEventID(ctx context.Context, eventID string) ([]domain.Registration, error)
}

type RegistrationService struct {
	repo       RegistrationRepository
	eventRepo  EventRepository
	ticketRepo TicketTypeRepository

	now func() time.Time
}

func NewRegistrationService(repo RegistrationRepository, eventRepo EventRepository, ticketRepo TicketTypeRepository) *RegistrationService {
	return &RegistrationService{
		repo:       repo,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register admits a user into an event. Preconditions (event exists, the
// ticket type belongs to the event, no prior registration) are checked
// first without mutating anything; the seat consumption and the
// registration row are then committed as one atomic unit by the
// repository, so a lost race against the last seat surfaces as ErrSoldOut
// with no partial state.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID string, admission domain.Admission) (domain.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Registration{}, ErrEventNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	var ticketTypeID *string
	if admission.Kind == domain.AdmissionTicketed {
		ticketType, err := s.ticketRepo.FindByID(ctx, admission.TicketTypeID)
		if err != nil {
			if errors.Is(err, ErrTicketTypeNotFound) {
				return domain.Registration{}, ErrTicketTypeNotFound
			}

			return domain.Registration{}, fmt.Errorf("s.ticketRepo.FindByID -> %w", err)
		}

		// A ticket type from another event is not available here.
		if ticketType.EventID != eventID {
			return domain.Registration{}, ErrTicketTypeNotFound
		}

		ticketTypeID = &ticketType.ID
	}

	if _, err := s.repo.FindByUserAndEvent(ctx, userID, eventID); err == nil {
		return domain.Registration{}, ErrDuplicateRegistration
	} else if !errors.Is(err, ErrRegistrationNotFound) {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByUserAndEvent -> %w", err)
	}

	admitted, err := s.repo.Admit(ctx, domain.Registration{
		EventID:      eventID,
		UserID:       userID,
		TicketTypeID: ticketTypeID,
		RegisteredAt: s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSoldOut):
			return domain.Registration{}, ErrSoldOut
		case errors.Is(err, ErrDuplicateRegistration):
			return domain.Registration{}, ErrDuplicateRegistration
		case errors.Is(err, ErrTicketTypeNotFound):
			return domain.Registration{}, ErrTicketTypeNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.repo.Admit -> %w", err)
	}

	return admitted, nil
}

// Cancel removes a registration and reverses the seat it consumed.
// Allowed for the registrant, the event owner and admins.
func (s *RegistrationService) Cancel(ctx context.Context, registrationID string, actor domain.User) error {
	registration, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if registration.UserID != actor.ID && !actor.IsAdmin() {
		event, err := s.eventRepo.FindByID(ctx, registration.EventID)
		if err != nil {
			if errors.Is(err, ErrEventNotFound) {
				return ErrCancellationForbidden
			}

			return fmt.Errorf("s.eventRepo.FindByID -> %w", err)
		}

		if event.CreatedBy != actor.ID {
			return ErrCancellationForbidden
		}
	}

	if _, err = s.repo.Remove(ctx, registrationID); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}

		return fmt.Errorf("s.repo.Remove -> %w", err)
	}

	return nil
}

// ListForUser returns the user's registrations, newest first, with the
// event payloads attached for the tickets page.
func (s *RegistrationService) ListForUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	registrations, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return registrations, nil
}

// ListForEvent returns an event's registrations, newest first. Owner-only.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID string, actor domain.User) ([]domain.Registration, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if !event.OwnedBy(actor) {
		return nil, ErrNotEventOwner
	}

	registrations, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return registrations, nil
}
