package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"15", "15"},
		{"150", "15/0"},
		{"1503", "15/03"},
		{"15032", "15/03/2"},
		{"15032024", "15/03/2024"},
		{"150320249999", "15/03/2024"},
		{"abc15", "15"},
		{"15/03/2024", "15/03/2024"},
		{"15a03b2024", "15/03/2024"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Mask(c.in), "Mask(%q)", c.in)
	}
}

func TestToCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "2024-03-15"},
		{"1/2/2024", "2024-02-01"},
		{"15.03.2024", "2024-03-15"},
		{"15-03-2024", "2024-03-15"},
		{"01/01/70", "1970-01-01"},
		{"01/01/69", "2069-01-01"},
		{"31/12/99", "1999-12-31"},
		{"31/13/2024", ""},
		{"00/01/2024", ""},
		{"32/01/2024", ""},
		{"15/03", ""},
		{"2024-03-15", ""},
		{"", ""},
		{"abc", ""},
		// Day-of-month overflow is not calendar-checked on purpose.
		{"31/02/2024", "2024-02-31"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ToCanonical(c.in), "ToCanonical(%q)", c.in)
	}
}

func TestToDisplay(t *testing.T) {
	assert.Equal(t, "15/03/2024", ToDisplay("2024-03-15"))
	assert.Equal(t, "", ToDisplay("15/03/2024"))
	assert.Equal(t, "", ToDisplay("2024-3-15"))
	assert.Equal(t, "", ToDisplay(""))
}

func TestDisplayRoundTrip(t *testing.T) {
	for _, d := range []string{"01/01/2024", "15/03/2024", "31/12/1999", "29/02/2020"} {
		assert.Equal(t, d, ToDisplay(ToCanonical(d)))
	}
}

func TestParseLoose(t *testing.T) {
	day, ok := ParseLoose("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), day)

	day, ok = ParseLoose("2024-03-15T18:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 0, day.Hour(), "time of day must be stripped")

	day, ok = ParseLoose("15/03/2024")
	require.True(t, ok)
	assert.Equal(t, time.March, day.Month())

	_, ok = ParseLoose("")
	assert.False(t, ok)
	_, ok = ParseLoose("not a date")
	assert.False(t, ok)
	// Canonicalized but impossible dates stay unparseable.
	_, ok = ParseLoose("2024-02-31")
	assert.False(t, ok)
}

func TestDayHelpers(t *testing.T) {
	day := time.Date(2024, 3, 15, 17, 45, 12, 0, time.Local)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), StartOfDay(day))
	assert.Equal(t, time.Date(2024, 3, 22, 0, 0, 0, 0, time.Local), AddDays(StartOfDay(day), 7))

	first, last := MonthBounds(StartOfDay(day))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), first)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local), last)

	first, last = MonthBounds(time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local))
	assert.Equal(t, 29, last.Day(), "leap February")
	assert.Equal(t, 1, first.Day())
}
