package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// SlotGenerationInput is everything the slot generator needs for one day.
// Date must carry the business location; Now may be in any location.
type SlotGenerationInput struct {
	Date                time.Time
	Windows             []*ShiftWindow
	SlotDurationMinutes int
	Bookings            []*Booking
	Now                 time.Time
}

// GenerateDaySlots turns the day's shift windows into bookable slots.
// Past slots (instant <= Now) and slots held by a non-canceled booking are dropped.
func GenerateDaySlots(in SlotGenerationInput) DaySlots {
	result := DaySlots{
		Date:     in.Date,
		Regular:  []types.TimeString{},
		Reserved: []types.TimeString{},
	}

	if len(in.Windows) == 0 {
		result.State = DayClosed
		return result
	}

	taken := make(map[types.TimeString]struct{}, len(in.Bookings))
	for _, b := range in.Bookings {
		if b.IsActive() {
			taken[b.TimeSlot] = struct{}{}
		}
	}

	candidates := CandidateSlots(in.Windows, in.SlotDurationMinutes)
	for _, category := range []SlotCategory{CategoryRegular, CategoryReserved} {
		free := make([]types.TimeString, 0, len(candidates[category]))
		for _, slot := range candidates[category] {
			if !slot.On(in.Date).After(in.Now) {
				continue
			}
			if _, ok := taken[slot]; ok {
				continue
			}
			free = append(free, slot)
		}
		if category == CategoryReserved {
			result.Reserved = free
		} else {
			result.Regular = free
		}
	}

	if result.Total() == 0 {
		result.State = DayFullyBooked
	} else {
		result.State = DayAvailable
	}

	return result
}

// CandidateSlots walks every window in steps of the slot duration, emitting a slot
// while its start is before the window end. Slots are deduplicated and sorted per lane.
// Bookings and the current time are not considered.
func CandidateSlots(windows []*ShiftWindow, slotDurationMinutes int) map[SlotCategory][]types.TimeString {
	result := map[SlotCategory][]types.TimeString{
		CategoryRegular:  {},
		CategoryReserved: {},
	}
	if slotDurationMinutes <= 0 {
		return result
	}

	seen := map[SlotCategory]map[types.TimeString]struct{}{
		CategoryRegular:  {},
		CategoryReserved: {},
	}

	for _, w := range windows {
		if _, ok := seen[w.Category]; !ok {
			continue
		}
		start, end := w.Start.Minutes(), w.End.Minutes()
		if start < 0 || end < 0 {
			continue
		}
		for m := start; m < end; m += slotDurationMinutes {
			slot := types.NewTimeStringFromMinutes(m)
			if _, dup := seen[w.Category][slot]; dup {
				continue
			}
			seen[w.Category][slot] = struct{}{}
			result[w.Category] = append(result[w.Category], slot)
		}
	}

	for category := range result {
		slots := result[category]
		sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	}

	return result
}

// OfferedCategories returns the lanes in which the slot is generated for the day
func OfferedCategories(windows []*ShiftWindow, slotDurationMinutes int, slot types.TimeString) []SlotCategory {
	candidates := CandidateSlots(windows, slotDurationMinutes)
	categories := make([]SlotCategory, 0, 2)
	for _, category := range []SlotCategory{CategoryRegular, CategoryReserved} {
		i := sort.Search(len(candidates[category]), func(i int) bool {
			return candidates[category][i] >= slot
		})
		if i < len(candidates[category]) && candidates[category][i] == slot {
			categories = append(categories, category)
		}
	}
	return categories
}

// FindShiftConflicts returns the upcoming bookings whose slot lies in [start, end)
// of the window, ordered by time slot
func FindShiftConflicts(window *ShiftWindow, bookings []*Booking) []*Booking {
	conflicts := make([]*Booking, 0)
	for _, b := range bookings {
		if !b.IsUpcoming() {
			continue
		}
		if !sameDay(b.Date, window.Date) {
			continue
		}
		if window.Contains(b.TimeSlot) {
			conflicts = append(conflicts, b)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].TimeSlot < conflicts[j].TimeSlot })
	return conflicts
}

// UncoveredBookings returns the upcoming bookings not contained in any of the windows
func UncoveredBookings(windows []*ShiftWindow, bookings []*Booking) []*Booking {
	uncovered := make([]*Booking, 0)
	for _, b := range bookings {
		if !b.IsUpcoming() {
			continue
		}
		covered := false
		for _, w := range windows {
			if w.Category == b.Category && w.Contains(b.TimeSlot) {
				covered = true
				break
			}
		}
		if !covered {
			uncovered = append(uncovered, b)
		}
	}
	return uncovered
}

// BookingIDs returns the ids of the bookings
func BookingIDs(bookings []*Booking) []int64 {
	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
