package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, tod.Hour)
	assert.Equal(t, 30, tod.Minute)
	assert.Equal(t, "08:30", tod.String())

	for _, bad := range []string{"", "8", "25:00", "08:61", "banana"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q should be rejected", bad)
	}
}

func TestNewTimeSlot_RequiresStartBeforeEnd(t *testing.T) {
	eight, _ := ParseTimeOfDay("08:00")
	ten, _ := ParseTimeOfDay("10:00")

	_, err := NewTimeSlot(ten, eight)
	assert.Error(t, err)

	_, err = NewTimeSlot(eight, eight)
	assert.Error(t, err)

	slot, err := NewTimeSlot(eight, ten)
	require.NoError(t, err)
	assert.Equal(t, eight, slot.Start)
	assert.Equal(t, ten, slot.End)
}

func TestOverlaps(t *testing.T) {
	slot := func(start, end string) TimeSlot {
		st, err := ParseTimeOfDay(start)
		require.NoError(t, err)
		et, err := ParseTimeOfDay(end)
		require.NoError(t, err)
		return TimeSlot{Start: st, End: et}
	}

	tests := []struct {
		name     string
		a, b     TimeSlot
		overlaps bool
	}{
		{"identical", slot("08:00", "10:00"), slot("08:00", "10:00"), true},
		{"partial overlap", slot("08:00", "10:00"), slot("09:00", "11:00"), true},
		{"containment", slot("08:00", "12:00"), slot("09:00", "10:00"), true},
		{"one minute overlap", slot("08:00", "10:00"), slot("09:59", "11:00"), true},
		{"back to back", slot("08:00", "10:00"), slot("10:00", "12:00"), false},
		{"back to back reversed", slot("10:00", "12:00"), slot("08:00", "10:00"), false},
		{"disjoint", slot("08:00", "09:00"), slot("10:00", "11:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeOfDay_SQLRoundTrip(t *testing.T) {
	tod, err := ParseTimeOfDay("14:05")
	require.NoError(t, err)

	v, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "14:05:00", v)

	var scanned TimeOfDay
	require.NoError(t, scanned.Scan("14:05:00"))
	assert.Equal(t, tod, scanned)

	// Postgres drivers may surface TIME columns as time.Time.
	require.NoError(t, scanned.Scan(time.Date(0, 1, 1, 9, 45, 0, 0, time.UTC)))
	assert.Equal(t, "09:45", scanned.String())
}
