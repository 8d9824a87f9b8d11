package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func window(start, end string, category SlotCategory) *ShiftWindow {
	return &ShiftWindow{
		ID:       uuid.New(),
		Date:     testDate,
		Start:    types.TimeString(start),
		End:      types.TimeString(end),
		Category: category,
	}
}

func booking(id int64, slot string, status BookingStatus) *Booking {
	return &Booking{
		ID:       id,
		Date:     testDate,
		TimeSlot: types.TimeString(slot),
		Category: CategoryRegular,
		Status:   status,
	}
}

func slots(values ...string) []types.TimeString {
	result := make([]types.TimeString, len(values))
	for i, v := range values {
		result[i] = types.TimeString(v)
	}
	return result
}

// dayBefore - момент времени до начала любых смен testDate
var dayBefore = testDate.Add(-12 * time.Hour)

func TestGenerateDaySlots(t *testing.T) {
	tests := []struct {
		name         string
		windows      []*ShiftWindow
		duration     int
		bookings     []*Booking
		now          time.Time
		wantState    DayState
		wantRegular  []types.TimeString
		wantReserved []types.TimeString
	}{
		{
			name:         "end of window is exclusive",
			windows:      []*ShiftWindow{window("09:00", "10:00", CategoryRegular)},
			duration:     30,
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "09:30"),
			wantReserved: slots(),
		},
		{
			name: "overlapping windows are deduplicated",
			windows: []*ShiftWindow{
				window("09:30", "10:30", CategoryRegular),
				window("09:00", "10:00", CategoryRegular),
			},
			duration:     30,
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "09:30", "10:00"),
			wantReserved: slots(),
		},
		{
			name:         "hourly slots before opening",
			windows:      []*ShiftWindow{window("09:00", "12:00", CategoryRegular)},
			duration:     60,
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "10:00", "11:00"),
			wantReserved: slots(),
		},
		{
			name:         "booked slot is excluded",
			windows:      []*ShiftWindow{window("09:00", "12:00", CategoryRegular)},
			duration:     60,
			bookings:     []*Booking{booking(1, "10:00", StatusUpcoming)},
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "11:00"),
			wantReserved: slots(),
		},
		{
			name:         "canceled booking frees the slot",
			windows:      []*ShiftWindow{window("09:00", "11:00", CategoryRegular)},
			duration:     60,
			bookings:     []*Booking{booking(1, "10:00", StatusCanceled)},
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "10:00"),
			wantReserved: slots(),
		},
		{
			name:         "completed booking still holds the slot",
			windows:      []*ShiftWindow{window("09:00", "11:00", CategoryRegular)},
			duration:     60,
			bookings:     []*Booking{booking(1, "09:00", StatusCompleted)},
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("10:00"),
			wantReserved: slots(),
		},
		{
			name:         "slot starting exactly now is excluded",
			windows:      []*ShiftWindow{window("09:00", "11:00", CategoryRegular)},
			duration:     30,
			now:          testDate.Add(9*time.Hour + 30*time.Minute),
			wantState:    DayAvailable,
			wantRegular:  slots("10:00", "10:30"),
			wantReserved: slots(),
		},
		{
			name:         "slot already in progress is excluded",
			windows:      []*ShiftWindow{window("09:00", "11:00", CategoryRegular)},
			duration:     30,
			now:          testDate.Add(9*time.Hour + 45*time.Minute),
			wantState:    DayAvailable,
			wantRegular:  slots("10:00", "10:30"),
			wantReserved: slots(),
		},
		{
			name: "lanes are partitioned",
			windows: []*ShiftWindow{
				window("09:00", "10:00", CategoryRegular),
				window("16:00", "17:00", CategoryReserved),
			},
			duration:     30,
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "09:30"),
			wantReserved: slots("16:00", "16:30"),
		},
		{
			name:         "trailing partial slot is emitted while its start is before end",
			windows:      []*ShiftWindow{window("09:00", "10:15", CategoryRegular)},
			duration:     30,
			now:          dayBefore,
			wantState:    DayAvailable,
			wantRegular:  slots("09:00", "09:30", "10:00"),
			wantReserved: slots(),
		},
		{
			name:         "no windows means closed",
			windows:      nil,
			duration:     30,
			now:          dayBefore,
			wantState:    DayClosed,
			wantRegular:  slots(),
			wantReserved: slots(),
		},
		{
			name:         "all slots booked means fully booked",
			windows:      []*ShiftWindow{window("09:00", "10:00", CategoryRegular)},
			duration:     30,
			bookings:     []*Booking{booking(1, "09:00", StatusUpcoming), booking(2, "09:30", StatusUpcoming)},
			now:          dayBefore,
			wantState:    DayFullyBooked,
			wantRegular:  slots(),
			wantReserved: slots(),
		},
		{
			name:         "all slots in the past means fully booked",
			windows:      []*ShiftWindow{window("09:00", "10:00", CategoryRegular)},
			duration:     30,
			now:          testDate.Add(18 * time.Hour),
			wantState:    DayFullyBooked,
			wantRegular:  slots(),
			wantReserved: slots(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateDaySlots(SlotGenerationInput{
				Date:                testDate,
				Windows:             tt.windows,
				SlotDurationMinutes: tt.duration,
				Bookings:            tt.bookings,
				Now:                 tt.now,
			})

			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantRegular, got.Regular)
			assert.Equal(t, tt.wantReserved, got.Reserved)
		})
	}
}

func TestGenerateDaySlots_FutureDateIgnoresClock(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)

	got := GenerateDaySlots(SlotGenerationInput{
		Date:                testDate,
		Windows:             []*ShiftWindow{window("00:00", "02:00", CategoryRegular)},
		SlotDurationMinutes: 60,
		Now:                 now,
	})

	assert.Equal(t, slots("00:00", "01:00"), got.Regular)
}

func TestGenerateDaySlots_BusinessLocation(t *testing.T) {
	loc := time.FixedZone("IST", 2*60*60)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	// 08:30 UTC = 10:30 local
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	got := GenerateDaySlots(SlotGenerationInput{
		Date:                date,
		Windows:             []*ShiftWindow{window("09:00", "12:00", CategoryRegular)},
		SlotDurationMinutes: 60,
		Now:                 now,
	})

	assert.Equal(t, slots("11:00"), got.Regular)
}

func TestCandidateSlots_NeverWrapsPastMidnight(t *testing.T) {
	got := CandidateSlots([]*ShiftWindow{window("22:00", "23:59", CategoryRegular)}, 45)

	assert.Equal(t, slots("22:00", "22:45", "23:30"), got[CategoryRegular])
}

func TestOfferedCategories(t *testing.T) {
	windows := []*ShiftWindow{
		window("09:00", "11:00", CategoryRegular),
		window("10:00", "12:00", CategoryReserved),
	}

	assert.Equal(t, []SlotCategory{CategoryRegular}, OfferedCategories(windows, 60, "09:00"))
	assert.Equal(t, []SlotCategory{CategoryRegular, CategoryReserved}, OfferedCategories(windows, 60, "10:00"))
	assert.Equal(t, []SlotCategory{CategoryReserved}, OfferedCategories(windows, 60, "11:00"))
	assert.Empty(t, OfferedCategories(windows, 60, "09:30"))
}

func TestFindShiftConflicts(t *testing.T) {
	w := window("14:00", "16:00", CategoryRegular)
	inside := booking(1, "14:30", StatusUpcoming)
	boundary := booking(2, "16:00", StatusUpcoming)
	atStart := booking(3, "14:00", StatusUpcoming)
	canceled := booking(4, "15:00", StatusCanceled)
	completed := booking(5, "15:30", StatusCompleted)

	conflicts := FindShiftConflicts(w, []*Booking{boundary, inside, canceled, atStart, completed})

	require.Len(t, conflicts, 2)
	assert.Equal(t, []int64{3, 1}, BookingIDs(conflicts))
}

func TestFindShiftConflicts_SingleConflict(t *testing.T) {
	w := window("14:00", "16:00", CategoryRegular)

	conflicts := FindShiftConflicts(w, []*Booking{
		booking(1, "14:30", StatusUpcoming),
		booking(2, "16:00", StatusUpcoming),
	})

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ID)
}

func TestFindShiftConflicts_OtherDayIgnored(t *testing.T) {
	w := window("14:00", "16:00", CategoryRegular)
	other := booking(1, "14:30", StatusUpcoming)
	other.Date = testDate.AddDate(0, 0, 1)

	assert.Empty(t, FindShiftConflicts(w, []*Booking{other}))
}

func TestFindShiftConflicts_IgnoresFinishedBookings(t *testing.T) {
	w := window("09:00", "12:00", CategoryRegular)

	conflicts := FindShiftConflicts(w, []*Booking{
		booking(1, "09:30", StatusCompleted),
		booking(2, "10:00", StatusCanceled),
		booking(3, "11:30", StatusCompleted),
	})

	assert.Empty(t, conflicts)
}

func TestUncoveredBookings(t *testing.T) {
	windows := []*ShiftWindow{window("09:00", "12:00", CategoryRegular)}
	covered := booking(1, "10:00", StatusUpcoming)
	outside := booking(2, "13:00", StatusUpcoming)
	wrongLane := booking(3, "11:00", StatusUpcoming)
	wrongLane.Category = CategoryReserved
	done := booking(4, "14:00", StatusCompleted)

	got := UncoveredBookings(windows, []*Booking{covered, outside, wrongLane, done})

	assert.Equal(t, []int64{2, 3}, BookingIDs(got))
}
