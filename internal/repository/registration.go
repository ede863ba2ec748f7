package repository

import (
	"context"
	"fmt"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound  = dao.ErrRegistrationNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
	ErrSoldOut               = dao.ErrSoldOut
)

type RegistrationDAO interface {
	Admit(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	Remove(ctx context.Context, id string) (dao.Registration, error)
	FindByID(ctx context.Context, id string) (dao.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (dao.Registration, error)
	FindByUserID(ctx context.Context, userID string) ([]dao.Registration, error)
	FindByEventID(ctx context.Context, eventID string) ([]dao.Registration, error)
	FindByEventIDs(ctx context.Context, eventIDs []string) ([]dao.Registration, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

// Admit persists the registration, consuming one seat of its ticket type
// when one is referenced. The capacity check and both writes happen in a
// single database transaction inside the DAO.
func (r *RegistrationRepository) Admit(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	admitted, err := r.dao.Admit(ctx, r.domainToDao(registration))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Admit -> %w", err)
	}

	return r.daoToDomain(admitted), nil
}

func (r *RegistrationRepository) Remove(ctx context.Context, id string) (domain.Registration, error) {
	removed, err := r.dao.Remove(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Remove -> %w", err)
	}

	return r.daoToDomain(removed), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID string) (domain.Registration, error) {
	found, err := r.dao.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByUserAndEvent -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Registration, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) FindByEventID(ctx context.Context, eventID string) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) FindByEventIDs(ctx context.Context, eventIDs []string) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventIDs -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *RegistrationRepository) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	count, err := r.dao.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEventID -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) domainToDao(reg domain.Registration) dao.Registration {
	return dao.Registration{
		ID:           reg.ID,
		EventID:      reg.EventID,
		UserID:       reg.UserID,
		TicketTypeID: reg.TicketTypeID,
		RegisteredAt: reg.RegisteredAt,
	}
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	result := domain.Registration{
		ID:           reg.ID,
		EventID:      reg.EventID,
		UserID:       reg.UserID,
		TicketTypeID: reg.TicketTypeID,
		RegisteredAt: reg.RegisteredAt,
	}

	if reg.Event.ID != "" {
		event := domain.Event{
			ID:                 reg.Event.ID,
			Title:              reg.Event.Title,
			Description:        reg.Event.Description,
			Date:               reg.Event.Date,
			Time:               reg.Event.Time,
			Address:            reg.Event.Address,
			Category:           reg.Event.Category,
			BackgroundImageURL: reg.Event.BackgroundImageURL,
			TargetDate:         reg.Event.TargetDate,
			CreatedBy:          reg.Event.CreatedBy,
			CreatedAt:          reg.Event.CreatedAt,
			UpdatedAt:          reg.Event.UpdatedAt,
		}
		result.Event = &event
	}

	if reg.User.ID != "" {
		attendee := domain.User{
			ID:        reg.User.ID,
			Email:     reg.User.Email,
			Name:      reg.User.Name,
			Role:      reg.User.Role,
			CreatedAt: reg.User.CreatedAt,
			UpdatedAt: reg.User.UpdatedAt,
		}
		result.Attendee = &attendee
	}

	return result
}

func (r *RegistrationRepository) daosToDomain(registrations []dao.Registration) []domain.Registration {
	result := make([]domain.Registration, len(registrations))
	for i, reg := range registrations {
		result[i] = r.daoToDomain(reg)
	}
	return result
}
