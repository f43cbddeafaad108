package database

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/model"
)

var ctx = context.Background()

func testBooking(busId primitive.ObjectID, transactionID, date string, seats ...int) model.Booking {
	persons := make([]model.Person, 0, len(seats))
	for _, seat := range seats {
		persons = append(persons, model.Person{Name: "p", SeatNo: seat})
	}
	return model.Booking{
		Id:            primitive.NewObjectID(),
		TransactionID: transactionID,
		BusData: model.BusSnapshot{
			Bus:  model.BusSummary{Id: busId, Operator: "Green Line", Name: "GL-101"},
			Date: date,
		},
		Persons:          persons,
		PassengerDetails: model.PassengerDetails{Email: "rider@example.com", Phone: "01700000000"},
	}
}

func TestBookingInsertRejectsDuplicateTransaction(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()

	assert.NoError(t, store.Insert(ctx, testBooking(busId, "tx-1", "2026-09-01", 1)))

	err := store.Insert(ctx, testBooking(busId, "tx-1", "2026-09-02", 2))
	assert.Equal(t, ErrDuplicateTransaction, err)

	// the failed insert left no partial state
	bookings, _ := store.FindByDate(ctx, "2026-09-02")
	assert.Empty(t, bookings)
}

func TestBookingInsertRejectsSeatOverlapSameBusAndDate(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()

	assert.NoError(t, store.Insert(ctx, testBooking(busId, "tx-1", "2026-09-01", 3, 4)))

	err := store.Insert(ctx, testBooking(busId, "tx-2", "2026-09-01", 4, 5))
	assert.Equal(t, ErrSeatConflict, err)
}

func TestBookingInsertAllowsSameSeatOnOtherDateOrBus(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()

	assert.NoError(t, store.Insert(ctx, testBooking(busId, "tx-1", "2026-09-01", 5)))
	assert.NoError(t, store.Insert(ctx, testBooking(busId, "tx-2", "2026-09-02", 5)))
	assert.NoError(t, store.Insert(ctx, testBooking(primitive.NewObjectID(), "tx-3", "2026-09-01", 5)))
}

func TestConcurrentSeatSubmissionsExactlyOneWins(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()

	const writers = 8
	results := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- store.Insert(ctx,
				testBooking(busId, fmt.Sprintf("tx-%d", i), "2026-09-01", 5))
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	conflicted := 0
	for err := range results {
		switch err {
		case nil:
			succeeded++
		case ErrSeatConflict:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)
}

func TestCountMatchesPaginatedResults(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()
	for i := 0; i < 7; i++ {
		assert.NoError(t, store.Insert(ctx,
			testBooking(busId, fmt.Sprintf("tx-%d", i), fmt.Sprintf("2026-09-0%d", i+1), 1)))
	}

	filter := BookingFilter{Operator: "Green Line"}
	count, err := store.CountByOperator(ctx, filter)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)

	for _, perPage := range []int64{1, 2, 3, 7, 10} {
		total := 0
		for page := int64(0); ; page++ {
			bookings, err := store.FindByOperator(ctx, filter, Page{Number: page, PerPage: perPage})
			assert.NoError(t, err)
			total += len(bookings)
			if int64(len(bookings)) < perPage {
				break
			}
		}
		assert.Equal(t, int(count), total, "perPage=%d", perPage)
	}
}

func TestNegativePageReadsFromTheStart(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		assert.NoError(t, store.Insert(ctx,
			testBooking(busId, fmt.Sprintf("tx-%d", i), "2026-09-01", i+1)))
	}

	var found []model.Booking
	var err error
	assert.NotPanics(t, func() {
		found, err = store.FindByOperator(ctx,
			BookingFilter{Operator: "Green Line"}, Page{Number: -1, PerPage: 2})
	})
	assert.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestBookingFilterMatchesExactly(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()
	booking := testBooking(busId, "tx-1", "2026-09-01", 1)
	assert.NoError(t, store.Insert(ctx, booking))

	for _, searchText := range []string{"GL-101", "2026-09-01", "rider@example.com", "01700000000"} {
		found, err := store.FindByOperator(ctx,
			BookingFilter{Operator: "Green Line", SearchText: searchText}, Page{})
		assert.NoError(t, err)
		assert.Len(t, found, 1, "searchText=%v", searchText)
	}

	// substring must not match
	found, err := store.FindByOperator(ctx,
		BookingFilter{Operator: "Green Line", SearchText: "rider"}, Page{})
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestBookingFilterDateRangeIsInclusive(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()
	for i, date := range []string{"2026-09-01", "2026-09-02", "2026-09-03"} {
		assert.NoError(t, store.Insert(ctx, testBooking(busId, fmt.Sprintf("tx-%d", i), date, 1)))
	}

	found, err := store.FindByOperator(ctx,
		BookingFilter{Operator: "Green Line", FromDate: "2026-09-01", ToDate: "2026-09-02"}, Page{})
	assert.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestGetByTransactionID(t *testing.T) {
	store := NewMemoryBookingStore()
	busId := primitive.NewObjectID()
	assert.NoError(t, store.Insert(ctx, testBooking(busId, "tx-1", "2026-09-01", 1)))

	booking, err := store.GetByTransactionID(ctx, "tx-1")
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", booking.TransactionID)

	_, err = store.GetByTransactionID(ctx, "tx-unknown")
	assert.Equal(t, ErrNotFound, err)
}

func TestSetAvailableIsIdempotent(t *testing.T) {
	store := NewMemoryBusStore()
	busId, err := store.Insert(ctx, model.Bus{Operator: "Green Line", Available: true})
	assert.NoError(t, err)

	assert.NoError(t, store.SetAvailable(ctx, busId, false))
	assert.NoError(t, store.SetAvailable(ctx, busId, false))

	bus, err := store.Get(ctx, busId)
	assert.NoError(t, err)
	assert.False(t, bus.Available)

	assert.Equal(t, ErrNotFound, store.SetAvailable(ctx, primitive.NewObjectID(), true))
}

func TestDeleteBus(t *testing.T) {
	store := NewMemoryBusStore()
	busId, err := store.Insert(ctx, model.Bus{Operator: "Green Line"})
	assert.NoError(t, err)

	assert.Equal(t, ErrNotFound, store.Delete(ctx, primitive.NewObjectID()))

	assert.NoError(t, store.Delete(ctx, busId))
	_, err = store.Get(ctx, busId)
	assert.Equal(t, ErrNotFound, err)
}

func TestFindForJourneyChecksStoppagesAndPublishFlag(t *testing.T) {
	store := NewMemoryBusStore(
		model.Bus{Name: "both", Available: true,
			Stoppages: []model.Stoppage{{Name: "X"}, {Name: "Y"}, {Name: "Z"}}},
		model.Bus{Name: "one-stop", Available: true,
			Stoppages: []model.Stoppage{{Name: "X"}}},
		model.Bus{Name: "unpublished", Available: false,
			Stoppages: []model.Stoppage{{Name: "X"}, {Name: "Z"}}},
	)

	buses, err := store.FindForJourney(ctx, "X", "Z")
	assert.NoError(t, err)
	assert.Len(t, buses, 1)
	assert.Equal(t, "both", buses[0].Name)

	// order along the route is not validated, reversed query matches too
	buses, err = store.FindForJourney(ctx, "Z", "X")
	assert.NoError(t, err)
	assert.Len(t, buses, 1)
}

func TestStationInsertIfAbsentDeduplicatesByName(t *testing.T) {
	store := NewMemoryStationStore()

	inserted, err := store.InsertIfAbsent(ctx, model.Station{Name: "X"})
	assert.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.InsertIfAbsent(ctx, model.Station{Name: "X"})
	assert.NoError(t, err)
	assert.False(t, inserted)

	stations, err := store.All(ctx)
	assert.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestUserStoreGrantOperator(t *testing.T) {
	store := NewMemoryUserStore(model.UserData{Email: "op@example.com"})

	assert.NoError(t, store.GrantOperator(ctx, "op@example.com", "Green Line"))
	assert.Equal(t, ErrNotFound, store.GrantOperator(ctx, "nobody@example.com", "Green Line"))

	user, err := store.GetByEmail(ctx, "op@example.com")
	assert.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, "Green Line", user.OperatorName)
}

func TestUserInsertIfAbsent(t *testing.T) {
	store := NewMemoryUserStore()

	inserted, err := store.InsertIfAbsent(ctx, model.UserData{Email: "a@example.com"})
	assert.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.InsertIfAbsent(ctx, model.UserData{Email: "a@example.com"})
	assert.NoError(t, err)
	assert.False(t, inserted)
}
