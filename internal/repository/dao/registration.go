package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("user is already registered for this event")
	ErrSoldOut               = errors.New("ticket type is sold out")
	ErrCancellationConflict  = errors.New("registration counter already reversed")
)

type Registration struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	EventID      string  `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user"`
	UserID       string  `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user"`
	TicketTypeID *string `gorm:"type:uuid"`

	RegisteredAt time.Time `gorm:"not null;index"`

	Event Event `gorm:"foreignKey:EventID"`
	User  User  `gorm:"foreignKey:UserID"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Admit commits a registration and, for ticketed admissions, the seat
// consumption, as one transaction. The capacity check and the counter
// increment are a single conditional UPDATE so that two admissions racing
// for the last seat cannot both pass: the losing transaction matches zero
// rows and is rolled back without inserting a registration.
func (d *RegistrationDAO) Admit(ctx context.Context, registration Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if registration.TicketTypeID != nil {
			result := tx.Model(&TicketType{}).
				Where("id = ? AND sold < quantity", *registration.TicketTypeID).
				UpdateColumn("sold", gorm.Expr("sold + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&TicketType{}).
					Where("id = ?", *registration.TicketTypeID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrTicketTypeNotFound
				}

				return ErrSoldOut
			}
		}

		if err := tx.Create(&registration).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, `"idx_registrations_event_user"`) {
				return ErrDuplicateRegistration
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

// Remove deletes a registration and reverses the ticket type's sold
// counter in the same transaction. The `sold > 0` predicate keeps the
// counter from ever going negative.
func (d *RegistrationDAO) Remove(ctx context.Context, id string) (Registration, error) {
	var registration Registration

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registration, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}

			return err
		}

		result := tx.Where("id = ?", id).Delete(&Registration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRegistrationNotFound
		}

		if registration.TicketTypeID != nil {
			result = tx.Model(&TicketType{}).
				Where("id = ? AND sold > 0", *registration.TicketTypeID).
				UpdateColumn("sold", gorm.Expr("sold - 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrCancellationConflict
			}
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id string) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByUserAndEvent(ctx context.Context, userID, eventID string) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).
		First(&registration, "user_id = ? AND event_id = ?", userID, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByUserID(ctx context.Context, userID string) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) FindByEventID(ctx context.Context, eventID string) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("registered_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) FindByEventIDs(ctx context.Context, eventIDs []string) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("registered_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ?", eventID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
