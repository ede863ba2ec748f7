package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrQuantityBelowSold  = errors.New("quantity cannot be set below tickets already sold")
	ErrTicketTypeInUse    = errors.New("ticket type has sold tickets")
)

type TicketType struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	EventID string `gorm:"type:uuid;not null;index"`

	Name        string `gorm:"not null"`
	Description string
	IsFree      bool    `gorm:"not null"`
	Price       float64 `gorm:"not null;default:0"`
	Quantity    int     `gorm:"not null"`
	Sold        int     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (t *TicketType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type TicketTypeDAO struct {
	db *gorm.DB
}

func NewTicketTypeDAO(db *gorm.DB) *TicketTypeDAO {
	return &TicketTypeDAO{
		db: db,
	}
}

func (d *TicketTypeDAO) Insert(ctx context.Context, ticketType TicketType) (TicketType, error) {
	result := d.db.WithContext(ctx).Create(&ticketType)
	if result.Error != nil {
		return TicketType{}, result.Error
	}

	return ticketType, nil
}

func (d *TicketTypeDAO) FindByID(ctx context.Context, id string) (TicketType, error) {
	var ticketType TicketType

	result := d.db.WithContext(ctx).First(&ticketType, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketType{}, ErrTicketTypeNotFound
		}

		return TicketType{}, result.Error
	}

	return ticketType, nil
}

func (d *TicketTypeDAO) FindByEventID(ctx context.Context, eventID string) ([]TicketType, error) {
	var ticketTypes []TicketType

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&ticketTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return ticketTypes, nil
}

func (d *TicketTypeDAO) FindByEventIDs(ctx context.Context, eventIDs []string) ([]TicketType, error) {
	var ticketTypes []TicketType

	result := d.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("created_at ASC").
		Find(&ticketTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return ticketTypes, nil
}

// Update writes the editable fields. The `sold <= ?` predicate re-checks
// the capacity rule at the database so a concurrent admission between the
// caller's read and this write cannot push sold above the new quantity.
func (d *TicketTypeDAO) Update(ctx context.Context, ticketType TicketType) (TicketType, error) {
	result := d.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("id = ? AND sold <= ?", ticketType.ID, ticketType.Quantity).
		Updates(map[string]any{
			"name":        ticketType.Name,
			"description": ticketType.Description,
			"is_free":     ticketType.IsFree,
			"price":       ticketType.Price,
			"quantity":    ticketType.Quantity,
		})
	if result.Error != nil {
		return TicketType{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, ticketType.ID); err != nil {
			return TicketType{}, err
		}

		return TicketType{}, ErrQuantityBelowSold
	}

	return d.FindByID(ctx, ticketType.ID)
}

// Delete removes a ticket type that has no sold tickets. Deletion with
// sold > 0 is blocked so existing registrations are never orphaned.
func (d *TicketTypeDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND sold = 0", id).
		Delete(&TicketType{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}

		return ErrTicketTypeInUse
	}

	return nil
}
