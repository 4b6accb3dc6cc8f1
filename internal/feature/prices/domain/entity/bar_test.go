package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBar_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bar  Bar
		want bool
	}{
		{"success: regular up bar", Bar{Open: 10, High: 12, Low: 9, Close: 11, Volume: 100}, true},
		{"success: flat bar", Bar{Open: 10, High: 10, Low: 10, Close: 10}, true},
		{"error: close above high", Bar{Open: 10, High: 11, Low: 9, Close: 12}, false},
		{"error: open below low", Bar{Open: 8, High: 11, Low: 9, Close: 10}, false},
		{"error: low above high", Bar{Open: 10, High: 9, Low: 11, Close: 10}, false},
		{"error: negative volume", Bar{Open: 10, High: 12, Low: 9, Close: 11, Volume: -1}, false},
		{"error: negative low", Bar{Open: 0, High: 1, Low: -1, Close: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.bar.Valid())
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	in := []Bar{
		{Time: day(3), Open: 3, High: 4, Low: 2, Close: 3},
		{Time: day(1), Open: 1, High: 2, Low: 1, Close: 2},
		{Time: day(2), Open: 2, High: 3, Low: 1, Close: 2},
		{Time: day(2), Open: 9, High: 9, Low: 9, Close: 9}, // duplicate timestamp
		{Time: day(4), Open: 5, High: 4, Low: 3, Close: 4}, // open above high
	}

	got, dropped := Normalize(in)

	assert.Equal(t, 2, dropped)
	if assert.Len(t, got, 3) {
		assert.True(t, got[0].Time.Equal(day(1)))
		assert.True(t, got[1].Time.Equal(day(2)))
		assert.True(t, got[2].Time.Equal(day(3)))
		assert.Equal(t, 2.0, got[1].Open, "first occurrence of a duplicate wins")
	}
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Time.Before(got[i].Time), "strictly increasing")
	}
	// input untouched
	assert.True(t, in[0].Time.Equal(day(3)))
}

func TestNormalize_Empty(t *testing.T) {
	t.Parallel()

	got, dropped := Normalize(nil)
	assert.Empty(t, got)
	assert.Zero(t, dropped)
}

func TestCloses(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{1, 2}, Closes([]Bar{{Close: 1}, {Close: 2}}))
}
