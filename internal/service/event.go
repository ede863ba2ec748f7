package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
	ErrNotOrganizer  = errors.New("user is not an organizer")
)

type EventDraft struct {
	Title              string
	Description        string
	Date               string
	Time               string
	Address            string
	Category           string
	BackgroundImageURL string
	TargetDate         time.Time
}

func (d EventDraft) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.Length(3, 100)),
		validation.Field(&d.Description, validation.Length(0, 2000)),
		validation.Field(&d.Date, validation.Required),
		validation.Field(&d.Time, validation.Required),
		validation.Field(&d.Address, validation.Required, validation.Length(3, 200)),
	)
	if err != nil {
		return err
	}

	if d.TargetDate.IsZero() {
		return errors.New("target_date: cannot be blank")
	}

	return nil
}

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	FindUpcoming(ctx context.Context, now time.Time) ([]domain.Event, error)
	FindByCreator(ctx context.Context, creatorID string) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventService struct {
	repo EventRepository

	now func() time.Time
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *EventService) CreateEvent(ctx context.Context, actor domain.User, draft EventDraft) (domain.Event, error) {
	if !actor.IsOrganizer() && !actor.IsAdmin() {
		return domain.Event{}, ErrNotOrganizer
	}

	if err := draft.Validate(); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, domain.Event{
		Title:              draft.Title,
		Description:        draft.Description,
		Date:               draft.Date,
		Time:               draft.Time,
		Address:            draft.Address,
		Category:           draft.Category,
		BackgroundImageURL: draft.BackgroundImageURL,
		TargetDate:         draft.TargetDate,
		CreatedBy:          actor.ID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUpcoming -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	events, err := s.repo.FindByCreator(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCreator -> %w", err)
	}

	return events, nil
}

// UpdateEvent rewrites the editable fields of an owned event. The owner
// is immutable; CreatedBy is never touched.
func (s *EventService) UpdateEvent(ctx context.Context, id string, actor domain.User, draft EventDraft) (domain.Event, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !current.OwnedBy(actor) {
		return domain.Event{}, ErrNotEventOwner
	}

	if err = draft.Validate(); err != nil {
		return domain.Event{}, err
	}

	current.Title = draft.Title
	current.Description = draft.Description
	current.Date = draft.Date
	current.Time = draft.Time
	current.Address = draft.Address
	current.Category = draft.Category
	current.BackgroundImageURL = draft.BackgroundImageURL
	current.TargetDate = draft.TargetDate

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteEvent removes the event and cascades to its ticket types and
// registrations.
func (s *EventService) DeleteEvent(ctx context.Context, id string, actor domain.User) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return ErrEventNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !current.OwnedBy(actor) {
		return ErrNotEventOwner
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
