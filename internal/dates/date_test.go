package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2025, time.January, 31},
		{"april", 2025, time.April, 30},
		{"february non-leap", 2025, time.February, 28},
		{"february leap div-4", 2024, time.February, 29},
		{"february century non-leap", 1900, time.February, 28},
		{"february century leap div-400", 2000, time.February, 29},
		{"december", 2025, time.December, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestDaysInMonth_MatchesGregorian(t *testing.T) {
	// Cross-check a span of years against the leap-year rule directly.
	for year := 1999; year <= 2101; year++ {
		leap := year%4 == 0 && (year%100 != 0 || year%400 == 0)
		want := 28
		if leap {
			want = 29
		}
		require.Equal(t, want, DaysInMonth(year, time.February), "year %d", year)
	}
}

func TestFirstWeekday(t *testing.T) {
	// 2025-04-01 was a Tuesday; 2024-09-01 a Sunday.
	assert.Equal(t, 2, FirstWeekday(2025, time.April))
	assert.Equal(t, 0, FirstWeekday(2024, time.September))
	assert.Equal(t, 1, FirstWeekday(2025, time.December))
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{"2025-04-01", "2024-02-29", "1999-12-31", "2025-01-09"} {
		d, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"two fields", "2025-04"},
		{"four fields", "2025-04-01-02"},
		{"non numeric", "2025-ab-01"},
		{"month out of range", "2025-13-01"},
		{"day out of range", "2025-02-30"},
		{"not a leap day", "2025-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
		})
	}
}

func TestCalendarDate_String_ZeroPadded(t *testing.T) {
	assert.Equal(t, "0099-01-05", New(99, time.January, 5).String())
	assert.Equal(t, "2025-09-01", New(2025, time.September, 1).String())
}

func TestCalendarDate_AddDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"same day", "2025-04-15", 0, "2025-04-15"},
		{"within month", "2025-04-15", 3, "2025-04-18"},
		{"month rollover", "2025-03-31", 1, "2025-04-01"},
		{"year rollover", "2025-12-31", 1, "2026-01-01"},
		{"leap day forward", "2024-02-28", 1, "2024-02-29"},
		{"negative within month", "2025-04-15", -5, "2025-04-10"},
		{"negative month rollover", "2025-04-01", -1, "2025-03-31"},
		{"a full week", "2025-03-26", 7, "2025-04-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.in).AddDays(tt.n).String())
		})
	}
}

func TestCalendarDate_BeforeAndDisabled(t *testing.T) {
	d1 := MustParse("2025-04-01")
	d2 := MustParse("2025-04-02")

	assert.True(t, d1.Before(d2))
	assert.False(t, d2.Before(d1))
	assert.False(t, d1.Before(d1))

	assert.True(t, IsDisabled(d1, d2))
	assert.False(t, IsDisabled(d2, d2), "minimum itself is selectable")
	assert.False(t, IsDisabled(d2, d1))

	// Year and month ordering dominate day ordering.
	assert.True(t, MustParse("2024-12-31").Before(MustParse("2025-01-01")))
	assert.True(t, MustParse("2025-03-31").Before(MustParse("2025-04-01")))
}

func TestFromTime_UsesLocalFields(t *testing.T) {
	// A time late in the evening in a negative-offset zone must keep its own
	// calendar day, not the UTC one.
	loc := time.FixedZone("UTC-7", -7*3600)
	evening := time.Date(2025, time.March, 31, 23, 30, 0, 0, loc)
	require.Equal(t, "2025-03-31", FromTime(evening).String())
	require.Equal(t, time.April, evening.UTC().Month(), "sanity: UTC already rolled over")
}
