package repository

import (
	"context"
	"fmt"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository/dao"
)

var (
	ErrTicketTypeNotFound = dao.ErrTicketTypeNotFound
	ErrQuantityBelowSold  = dao.ErrQuantityBelowSold
	ErrTicketTypeInUse    = dao.ErrTicketTypeInUse
)

type TicketTypeDAO interface {
	Insert(ctx context.Context, ticketType dao.TicketType) (dao.TicketType, error)
	FindByID(ctx context.Context, id string) (dao.TicketType, error)
	FindByEventID(ctx context.Context, eventID string) ([]dao.TicketType, error)
	FindByEventIDs(ctx context.Context, eventIDs []string) ([]dao.TicketType, error)
	Update(ctx context.Context, ticketType dao.TicketType) (dao.TicketType, error)
	Delete(ctx context.Context, id string) error
}

type TicketTypeRepository struct {
	dao TicketTypeDAO
}

func NewTicketTypeRepository(dao TicketTypeDAO) *TicketTypeRepository {
	return &TicketTypeRepository{
		dao: dao,
	}
}

func (r *TicketTypeRepository) Create(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	created, err := r.dao.Insert(ctx, ticketTypeDomainToDao(ticketType))
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return ticketTypeDaoToDomain(created), nil
}

func (r *TicketTypeRepository) FindByID(ctx context.Context, id string) (domain.TicketType, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return ticketTypeDaoToDomain(found), nil
}

func (r *TicketTypeRepository) FindByEventID(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return ticketTypeDaosToDomain(found), nil
}

func (r *TicketTypeRepository) FindByEventIDs(ctx context.Context, eventIDs []string) ([]domain.TicketType, error) {
	found, err := r.dao.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventIDs -> %w", err)
	}

	return ticketTypeDaosToDomain(found), nil
}

func (r *TicketTypeRepository) Update(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	updated, err := r.dao.Update(ctx, ticketTypeDomainToDao(ticketType))
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return ticketTypeDaoToDomain(updated), nil
}

func (r *TicketTypeRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func ticketTypeDomainToDao(t domain.TicketType) dao.TicketType {
	return dao.TicketType{
		ID:          t.ID,
		EventID:     t.EventID,
		Name:        t.Name,
		Description: t.Description,
		IsFree:      t.IsFree,
		Price:       t.Price,
		Quantity:    t.Quantity,
		Sold:        t.Sold,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ticketTypeDaoToDomain(t dao.TicketType) domain.TicketType {
	return domain.TicketType{
		ID:          t.ID,
		EventID:     t.EventID,
		Name:        t.Name,
		Description: t.Description,
		IsFree:      t.IsFree,
		Price:       t.Price,
		Quantity:    t.Quantity,
		Sold:        t.Sold,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ticketTypeDaosToDomain(ticketTypes []dao.TicketType) []domain.TicketType {
	result := make([]domain.TicketType, len(ticketTypes))
	for i, t := range ticketTypes {
		result[i] = ticketTypeDaoToDomain(t)
	}
	return result
}
