package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB starts a throwaway Postgres container. Run with -short to
// skip these.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=gatherly_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	var db *gorm.DB
	err = pool.Retry(func() error {
		dsn := fmt.Sprintf(
			"host=localhost port=%v user=postgres password=secret dbname=gatherly_test sslmode=disable",
			resource.GetPort("5432/tcp"),
		)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func seedEventWithType(t *testing.T, db *gorm.DB, quantity int) (Event, TicketType) {
	t.Helper()

	ctx := context.Background()

	user, err := NewUserDAO(db).Insert(ctx, User{
		Email:    fmt.Sprintf("organizer-%d@example.com", time.Now().UnixNano()),
		Password: "hash",
		Role:     "organizer",
		Name:     "Organizer",
	})
	require.NoError(t, err)

	event, err := NewEventDAO(db).Insert(ctx, Event{
		Title:      "Load Test Night",
		Date:       "Friday, June 12",
		Time:       "8:00 PM",
		Address:    "1 Warehouse Lane",
		TargetDate: time.Now().Add(48 * time.Hour),
		CreatedBy:  user.ID,
	})
	require.NoError(t, err)

	ticketType, err := NewTicketTypeDAO(db).Insert(ctx, TicketType{
		EventID:  event.ID,
		Name:     "Standard",
		Price:    10,
		Quantity: quantity,
	})
	require.NoError(t, err)

	return event, ticketType
}

func seedUser(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()

	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:    email,
		Password: "hash",
		Role:     "attendee",
		Name:     "Attendee",
	})
	require.NoError(t, err)

	return user
}

// Many concurrent admissions against a small inventory must admit
// exactly quantity users and leave sold == quantity.
func TestRegistrationDAO_AdmitConcurrent(t *testing.T) {
	db := setupTestDB(t)
	_, ticketType := seedEventWithType(t, db, 3)

	regDAO := NewRegistrationDAO(db)

	const contenders = 10
	users := make([]User, contenders)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("user-%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = regDAO.Admit(context.Background(), Registration{
				EventID:      ticketType.EventID,
				UserID:       users[i].ID,
				TicketTypeID: &ticketType.ID,
				RegisteredAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, ErrSoldOut)
		}
	}
	assert.Equal(t, 3, admitted)

	stored, err := NewTicketTypeDAO(db).FindByID(context.Background(), ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Sold)
}

func TestRegistrationDAO_DuplicateRejectedByIndex(t *testing.T) {
	db := setupTestDB(t)
	event, _ := seedEventWithType(t, db, 10)
	user := seedUser(t, db, "dup@example.com")

	regDAO := NewRegistrationDAO(db)
	ctx := context.Background()

	_, err := regDAO.Admit(ctx, Registration{
		EventID:      event.ID,
		UserID:       user.ID,
		RegisteredAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = regDAO.Admit(ctx, Registration{
		EventID:      event.ID,
		UserID:       user.ID,
		RegisteredAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegistrationDAO_RemoveReleasesSeat(t *testing.T) {
	db := setupTestDB(t)
	event, ticketType := seedEventWithType(t, db, 1)
	user := seedUser(t, db, "cancel@example.com")

	regDAO := NewRegistrationDAO(db)
	ctx := context.Background()

	registration, err := regDAO.Admit(ctx, Registration{
		EventID:      event.ID,
		UserID:       user.ID,
		TicketTypeID: &ticketType.ID,
		RegisteredAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = regDAO.Remove(ctx, registration.ID)
	require.NoError(t, err)

	stored, err := NewTicketTypeDAO(db).FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Sold)

	_, err = regDAO.Remove(ctx, registration.ID)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestTicketTypeDAO_UpdateGuardsSold(t *testing.T) {
	db := setupTestDB(t)
	event, ticketType := seedEventWithType(t, db, 5)
	user := seedUser(t, db, "buyer@example.com")

	ctx := context.Background()
	_, err := NewRegistrationDAO(db).Admit(ctx, Registration{
		EventID:      event.ID,
		UserID:       user.ID,
		TicketTypeID: &ticketType.ID,
		RegisteredAt: time.Now(),
	})
	require.NoError(t, err)

	ticketDAO := NewTicketTypeDAO(db)

	shrunk := ticketType
	shrunk.Quantity = 0
	_, err = ticketDAO.Update(ctx, shrunk)
	assert.ErrorIs(t, err, ErrQuantityBelowSold)

	err = ticketDAO.Delete(ctx, ticketType.ID)
	assert.ErrorIs(t, err, ErrTicketTypeInUse)
}

func TestUserDAO_UniqueEmail(t *testing.T) {
	db := setupTestDB(t)
	userDAO := NewUserDAO(db)
	ctx := context.Background()

	_, err := userDAO.Insert(ctx, User{Email: "same@example.com", Password: "hash", Role: "attendee", Name: "One"})
	require.NoError(t, err)

	_, err = userDAO.Insert(ctx, User{Email: "same@example.com", Password: "hash", Role: "attendee", Name: "Two"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
