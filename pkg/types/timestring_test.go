package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "canonical", input: "09:30", want: "09:30"},
		{name: "no leading zero", input: "9:30", want: "09:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "hours out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, TimeString("10:00"), TimeString("09:30").AddMinutes(30))
	assert.Equal(t, TimeString("00:15"), TimeString("23:45").AddMinutes(30))
	assert.True(t, TimeString("09:30").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:30"))
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("18:45").Validate())
	assert.Error(t, TimeString("8:45").Validate())
	assert.Error(t, TimeString("").Validate())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("IST", 2*60*60)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	got := TimeString("14:30").On(date)

	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 11, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:05"), ts)

	require.NoError(t, ts.Scan([]byte("07:30:00")))
	assert.Equal(t, TimeString("07:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
