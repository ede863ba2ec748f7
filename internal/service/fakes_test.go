package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/repository"
)

// In-memory repositories backing the service tests. They reproduce the
// storage-layer contract: sentinel errors, the (event, user) uniqueness
// of registrations, and atomic seat consumption under a lock.

type fakeEventRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]domain.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event.ID == "" {
		f.seq++
		event.ID = "event-" + strconv.Itoa(f.seq)
	}
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id string) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) FindUpcoming(_ context.Context, now time.Time) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var upcoming []domain.Event
	for _, event := range f.events {
		if !event.IsPast(now) {
			upcoming = append(upcoming, event)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].TargetDate.Before(upcoming[j].TargetDate)
	})

	return upcoming, nil
}

func (f *fakeEventRepo) FindByCreator(_ context.Context, creatorID string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var owned []domain.Event
	for _, event := range f.events {
		if event.CreatedBy == creatorID {
			owned = append(owned, event)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].ID < owned[j].ID
	})

	return owned, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[event.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(f.events, id)

	return nil
}

type fakeTicketRepo struct {
	mu    sync.Mutex
	seq   int
	types map[string]domain.TicketType
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{types: map[string]domain.TicketType{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ticketType.ID == "" {
		f.seq++
		ticketType.ID = "tt-" + strconv.Itoa(f.seq)
	}
	f.types[ticketType.ID] = ticketType

	return ticketType, nil
}

func (f *fakeTicketRepo) FindByID(_ context.Context, id string) (domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticketType, ok := f.types[id]
	if !ok {
		return domain.TicketType{}, repository.ErrTicketTypeNotFound
	}

	return ticketType, nil
}

func (f *fakeTicketRepo) FindByEventID(_ context.Context, eventID string) ([]domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.TicketType
	for _, ticketType := range f.types {
		if ticketType.EventID == eventID {
			result = append(result, ticketType)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (f *fakeTicketRepo) FindByEventIDs(_ context.Context, eventIDs []string) ([]domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = struct{}{}
	}

	var result []domain.TicketType
	for _, ticketType := range f.types {
		if _, ok := wanted[ticketType.EventID]; ok {
			result = append(result, ticketType)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticketType domain.TicketType) (domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.types[ticketType.ID]
	if !ok {
		return domain.TicketType{}, repository.ErrTicketTypeNotFound
	}
	if ticketType.Quantity < current.Sold {
		return domain.TicketType{}, repository.ErrQuantityBelowSold
	}
	ticketType.Sold = current.Sold
	f.types[ticketType.ID] = ticketType

	return ticketType, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.types[id]
	if !ok {
		return repository.ErrTicketTypeNotFound
	}
	if current.Sold > 0 {
		return repository.ErrTicketTypeInUse
	}
	delete(f.types, id)

	return nil
}

type fakeRegistrationRepo struct {
	mu      sync.Mutex
	seq     int
	regs    map[string]domain.Registration
	tickets *fakeTicketRepo
}

func newFakeRegistrationRepo(tickets *fakeTicketRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		regs:    map[string]domain.Registration{},
		tickets: tickets,
	}
}

// Admit mirrors the transactional behavior of the real store: the
// duplicate check, the capacity check and the seat increment happen under
// one lock, so concurrent admissions against the last seat cannot both
// succeed.
func (f *fakeRegistrationRepo) Admit(_ context.Context, registration domain.Registration) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.regs {
		if existing.EventID == registration.EventID && existing.UserID == registration.UserID {
			return domain.Registration{}, repository.ErrDuplicateRegistration
		}
	}

	if registration.TicketTypeID != nil {
		f.tickets.mu.Lock()
		ticketType, ok := f.tickets.types[*registration.TicketTypeID]
		if !ok {
			f.tickets.mu.Unlock()
			return domain.Registration{}, repository.ErrTicketTypeNotFound
		}
		if ticketType.Sold >= ticketType.Quantity {
			f.tickets.mu.Unlock()
			return domain.Registration{}, repository.ErrSoldOut
		}
		ticketType.Sold++
		f.tickets.types[ticketType.ID] = ticketType
		f.tickets.mu.Unlock()
	}

	f.seq++
	registration.ID = "reg-" + strconv.Itoa(f.seq)
	f.regs[registration.ID] = registration

	return registration, nil
}

func (f *fakeRegistrationRepo) Remove(_ context.Context, id string) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	registration, ok := f.regs[id]
	if !ok {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}
	delete(f.regs, id)

	if registration.TicketTypeID != nil {
		f.tickets.mu.Lock()
		if ticketType, ok := f.tickets.types[*registration.TicketTypeID]; ok && ticketType.Sold > 0 {
			ticketType.Sold--
			f.tickets.types[ticketType.ID] = ticketType
		}
		f.tickets.mu.Unlock()
	}

	return registration, nil
}

func (f *fakeRegistrationRepo) FindByID(_ context.Context, id string) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	registration, ok := f.regs[id]
	if !ok {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}

	return registration, nil
}

func (f *fakeRegistrationRepo) FindByUserAndEvent(_ context.Context, userID, eventID string) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, registration := range f.regs {
		if registration.UserID == userID && registration.EventID == eventID {
			return registration, nil
		}
	}

	return domain.Registration{}, repository.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindByUserID(_ context.Context, userID string) ([]domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Registration
	for _, registration := range f.regs {
		if registration.UserID == userID {
			result = append(result, registration)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RegisteredAt.After(result[j].RegisteredAt)
	})

	return result, nil
}

func (f *fakeRegistrationRepo) FindByEventID(_ context.Context, eventID string) ([]domain.Registration, error) {
	return f.FindByEventIDs(context.Background(), []string{eventID})
}

func (f *fakeRegistrationRepo) FindByEventIDs(_ context.Context, eventIDs []string) ([]domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = struct{}{}
	}

	var result []domain.Registration
	for _, registration := range f.regs {
		if _, ok := wanted[registration.EventID]; ok {
			result = append(result, registration)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RegisteredAt.After(result[j].RegisteredAt)
	})

	return result, nil
}

func (f *fakeRegistrationRepo) CountByEventID(_ context.Context, eventID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, registration := range f.regs {
		if registration.EventID == eventID {
			count++
		}
	}

	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	f.seq++
	user.ID = "user-" + strconv.Itoa(f.seq)
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}
