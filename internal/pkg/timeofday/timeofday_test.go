package timeofday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input  string
		want   TimeOfDay
		wantOK bool
	}{
		{"09:00", 540, true},
		{"9:5", 545, true},
		{" 17:30 ", 1050, true},
		{"00:00", 0, true},
		{"08:15:00", 495, true},
		{"25:99", 25*60 + 99, true},
		{"", 0, false},
		{"   ", 0, false},
		{"0900", 0, false},
		{"ab:cd", 0, false},
		{"09:", 0, false},
		{":30", 0, false},
	}

	for _, c := range cases {
		got, ok := Parse(c.input)
		assert.Equal(t, c.wantOK, ok, "Parse(%q) ok", c.input)
		if c.wantOK {
			assert.Equal(t, c.want, got, "Parse(%q)", c.input)
		}
	}
}

func TestParse_MidnightIsNotAbsent(t *testing.T) {
	got := ParsePtr("00:00")
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Minutes())

	assert.Nil(t, ParsePtr("garbage"))
	assert.Nil(t, ParseNullable(nil))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "08:00", FormatMinutes(480))
	assert.Equal(t, "07:05", FormatMinutes(425))
	assert.Equal(t, "23:59", FormatMinutes(1439))
}

func TestRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			total := h*60 + m
			got, ok := Parse(FormatMinutes(total))
			require.True(t, ok)
			require.Equal(t, total, got.Minutes())
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "09:05", Normalize("9:5"))
	assert.Equal(t, "17:00", Normalize("17:00:00"))
	assert.Equal(t, "", Normalize("n/a"))

	raw := "8:30"
	got := NormalizeNullable(&raw)
	require.NotNil(t, got)
	assert.Equal(t, "08:30", *got)

	bad := "-"
	assert.Nil(t, NormalizeNullable(&bad))
	assert.Nil(t, NormalizeNullable(nil))
}

func TestFormat(t *testing.T) {
	assert.Nil(t, Format(nil))
	got := Format(Ptr(545))
	require.NotNil(t, got)
	assert.Equal(t, "09:05", *got)
}
