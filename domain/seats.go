package domain

import (
	"sort"

	"bdbus-backend/model"
)

// SoldSeatsByBus groups the seats held by the given bookings per bus id.
// All bookings passed in are assumed to belong to one travel date.
func SoldSeatsByBus(bookings []model.Booking) map[string][]int {
	sold := make(map[string][]int)
	for _, booking := range bookings {
		busId := booking.BusData.Bus.Id.Hex()
		sold[busId] = append(sold[busId], booking.SeatNumbers()...)
	}
	return sold
}

// Overlay returns a copy of the bus with the sold seats removed from
// AvailableSeats and merged into Booked. The stored bus is not touched:
// the overlay is a derived per-date view. Booked in the result is
// deduplicated and sorted ascending.
func Overlay(bus model.Bus, sold []int) model.Bus {
	if len(sold) == 0 {
		return bus
	}
	bus.AvailableSeats = RemoveSeats(bus.AvailableSeats, sold)
	bus.Booked = MergeSeats(bus.Booked, sold)
	return bus
}

// ResolveAvailability applies the booking overlay to every candidate bus.
// Bookings for bus ids with no catalog match are ignored.
func ResolveAvailability(buses []model.Bus, bookings []model.Booking) []model.Bus {
	sold := SoldSeatsByBus(bookings)
	resolved := make([]model.Bus, 0, len(buses))
	for _, bus := range buses {
		resolved = append(resolved, Overlay(bus, sold[bus.Id.Hex()]))
	}
	return resolved
}

// MergeSeats unions two seat lists into a deduplicated ascending list.
func MergeSeats(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	merged := make([]int, 0, len(a)+len(b))
	for _, seat := range append(append([]int{}, a...), b...) {
		if !seen[seat] {
			seen[seat] = true
			merged = append(merged, seat)
		}
	}
	sort.Ints(merged)
	return merged
}

// RemoveSeats returns the seats of the first list that are absent from the
// second, preserving order.
func RemoveSeats(seats, remove []int) []int {
	removed := make(map[int]bool, len(remove))
	for _, seat := range remove {
		removed[seat] = true
	}
	kept := make([]int, 0, len(seats))
	for _, seat := range seats {
		if !removed[seat] {
			kept = append(kept, seat)
		}
	}
	return kept
}

// Disjoint reports whether two seat lists share no seat number.
func Disjoint(a, b []int) bool {
	inA := make(map[int]bool, len(a))
	for _, seat := range a {
		inA[seat] = true
	}
	for _, seat := range b {
		if inA[seat] {
			return false
		}
	}
	return true
}
