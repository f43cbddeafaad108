package database

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/domain"
	"bdbus-backend/model"
)

// In-memory store implementations with the same contracts as the Mongo
// ones. They back the handler and store tests and small local setups, the
// same role the local JSON database played before the Mongo move.

// NewMemoryBusStore returns an empty in-memory bus catalog.
func NewMemoryBusStore(buses ...model.Bus) *MemoryBusStore {
	store := &MemoryBusStore{buses: map[primitive.ObjectID]model.Bus{}}
	for _, bus := range buses {
		if bus.Id.IsZero() {
			bus.Id = primitive.NewObjectID()
		}
		store.buses[bus.Id] = bus
	}
	return store
}

type MemoryBusStore struct {
	mu    sync.RWMutex
	buses map[primitive.ObjectID]model.Bus
}

func (s *MemoryBusStore) Insert(ctx context.Context, bus model.Bus) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bus.Id.IsZero() {
		bus.Id = primitive.NewObjectID()
	}
	s.buses[bus.Id] = bus
	return bus.Id, nil
}

func (s *MemoryBusStore) Get(ctx context.Context, id primitive.ObjectID) (model.Bus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bus, exists := s.buses[id]
	if !exists {
		return model.Bus{}, ErrNotFound
	}
	return bus, nil
}

func (s *MemoryBusStore) All(ctx context.Context) ([]model.Bus, error) {
	return s.filter(func(model.Bus) bool { return true }), nil
}

func (s *MemoryBusStore) FindForJourney(ctx context.Context, from, to string) ([]model.Bus, error) {
	return s.filter(func(bus model.Bus) bool {
		return bus.Available && bus.HasStoppage(from) && bus.HasStoppage(to)
	}), nil
}

func (s *MemoryBusStore) FindByOperator(ctx context.Context, operator string) ([]model.Bus, error) {
	return s.filter(func(bus model.Bus) bool { return bus.Operator == operator }), nil
}

func (s *MemoryBusStore) FindByOperatorAndAvailability(ctx context.Context, operator string, available bool) ([]model.Bus, error) {
	return s.filter(func(bus model.Bus) bool {
		return bus.Operator == operator && bus.Available == available
	}), nil
}

func (s *MemoryBusStore) SetAvailable(ctx context.Context, id primitive.ObjectID, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bus, exists := s.buses[id]
	if !exists {
		return ErrNotFound
	}
	bus.Available = available
	s.buses[id] = bus
	return nil
}

func (s *MemoryBusStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.buses[id]; !exists {
		return ErrNotFound
	}
	delete(s.buses, id)
	return nil
}

func (s *MemoryBusStore) filter(keep func(model.Bus) bool) []model.Bus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buses := []model.Bus{}
	for _, bus := range s.buses {
		if keep(bus) {
			buses = append(buses, bus)
		}
	}
	return buses
}

// NewMemoryBookingStore returns an empty in-memory booking store.
func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{locks: newJourneyLocks()}
}

type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings []model.Booking
	locks    *journeyLocks
}

func (s *MemoryBookingStore) Insert(ctx context.Context, booking model.Booking) error {
	release := s.locks.acquire(booking.BusData.Bus.Id.Hex() + "/" + booking.BusData.Date)
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()
	taken := []int{}
	for _, existing := range s.bookings {
		if existing.TransactionID == booking.TransactionID {
			return ErrDuplicateTransaction
		}
		if existing.BusData.Bus.Id == booking.BusData.Bus.Id &&
			existing.BusData.Date == booking.BusData.Date {
			taken = append(taken, existing.SeatNumbers()...)
		}
	}
	if !domain.Disjoint(taken, booking.SeatNumbers()) {
		return ErrSeatConflict
	}
	s.bookings = append(s.bookings, booking)
	return nil
}

func (s *MemoryBookingStore) GetByTransactionID(ctx context.Context, transactionID string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, booking := range s.bookings {
		if booking.TransactionID == transactionID {
			return booking, nil
		}
	}
	return model.Booking{}, ErrNotFound
}

func (s *MemoryBookingStore) FindByDate(ctx context.Context, date string) ([]model.Booking, error) {
	return s.filter(func(booking model.Booking) bool {
		return booking.BusData.Date == date
	}, Page{}), nil
}

func (s *MemoryBookingStore) FindByOperator(ctx context.Context, filter BookingFilter, page Page) ([]model.Booking, error) {
	return s.filter(filter.matches, page), nil
}

func (s *MemoryBookingStore) CountByOperator(ctx context.Context, filter BookingFilter) (int64, error) {
	return int64(len(s.filter(filter.matches, Page{}))), nil
}

func (s *MemoryBookingStore) FindByPassenger(ctx context.Context, email string, page Page) ([]model.Booking, error) {
	return s.filter(func(booking model.Booking) bool {
		return booking.PassengerDetails.Email == email
	}, page), nil
}

func (s *MemoryBookingStore) CountByPassenger(ctx context.Context, email string) (int64, error) {
	bookings := s.filter(func(booking model.Booking) bool {
		return booking.PassengerDetails.Email == email
	}, Page{})
	return int64(len(bookings)), nil
}

func (f BookingFilter) matches(booking model.Booking) bool {
	if booking.BusData.Bus.Operator != f.Operator {
		return false
	}
	if f.SearchText != "" &&
		booking.BusData.Bus.Name != f.SearchText &&
		booking.BusData.Date != f.SearchText &&
		booking.PassengerDetails.Email != f.SearchText &&
		booking.PassengerDetails.Phone != f.SearchText {
		return false
	}
	if f.FromDate != "" && f.ToDate != "" &&
		(booking.BusData.Date < f.FromDate || booking.BusData.Date > f.ToDate) {
		return false
	}
	return true
}

func (s *MemoryBookingStore) filter(keep func(model.Booking) bool, page Page) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []model.Booking{}
	for _, booking := range s.bookings {
		if keep(booking) {
			matched = append(matched, booking)
		}
	}
	if page.PerPage <= 0 {
		return matched
	}
	start := page.Number * page.PerPage
	if start < 0 {
		start = 0
	}
	if start >= int64(len(matched)) {
		return []model.Booking{}
	}
	end := start + page.PerPage
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end]
}

// NewMemoryStationStore returns an empty in-memory station store.
func NewMemoryStationStore() *MemoryStationStore {
	return &MemoryStationStore{}
}

type MemoryStationStore struct {
	mu       sync.RWMutex
	stations []model.Station
}

func (s *MemoryStationStore) InsertIfAbsent(ctx context.Context, station model.Station) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.stations {
		if existing.Name == station.Name {
			return false, nil
		}
	}
	if station.Id.IsZero() {
		station.Id = primitive.NewObjectID()
	}
	s.stations = append(s.stations, station)
	return true, nil
}

func (s *MemoryStationStore) All(ctx context.Context) ([]model.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Station{}, s.stations...), nil
}

// NewMemoryUserStore returns an in-memory user store seeded with users.
func NewMemoryUserStore(users ...model.UserData) *MemoryUserStore {
	store := &MemoryUserStore{}
	for _, user := range users {
		if user.Id.IsZero() {
			user.Id = primitive.NewObjectID()
		}
		store.users = append(store.users, user)
	}
	return store
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users []model.UserData
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (model.UserData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.UserData{}, ErrNotFound
}

func (s *MemoryUserStore) All(ctx context.Context) ([]model.UserData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.UserData{}, s.users...), nil
}

func (s *MemoryUserStore) InsertIfAbsent(ctx context.Context, user model.UserData) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return false, nil
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	s.users = append(s.users, user)
	return true, nil
}

func (s *MemoryUserStore) UpdateProfile(ctx context.Context, email string, user model.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.Email == email {
			existing.Name = user.Name
			existing.Phone = user.Phone
			s.users[i] = existing
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryUserStore) GrantOperator(ctx context.Context, email string, operatorName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.Email == email {
			existing.OperatorName = operatorName
			existing.Role = "admin"
			s.users[i] = existing
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryUserStore) MakeAdmin(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.Id == id {
			existing.Role = "admin"
			s.users[i] = existing
			return nil
		}
	}
	return ErrNotFound
}
