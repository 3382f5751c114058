package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportDate_SlashDate(t *testing.T) {
	got, err := ParseReportDate("2/24/2003")
	require.NoError(t, err)

	want := time.Date(2003, time.February, 24, 0, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want))
	assert.Equal(t, time.Local, got.Location())
}

func TestParseReportDate_SlashDate_TrailingTimeDiscarded(t *testing.T) {
	got, err := ParseReportDate("2/24/2003 0:00")
	require.NoError(t, err)

	want := time.Date(2003, time.February, 24, 0, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want))
}

func TestParseReportDate_ISODate_IsUTCMidnight(t *testing.T) {
	got, err := ParseReportDate("2003-02-24")
	require.NoError(t, err)

	want := time.Date(2003, time.February, 24, 0, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseReportDate_Timestamps(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: "2003-02-24T10:30:00Z",
			want:  time.Date(2003, time.February, 24, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: "2003-02-24T10:30:00+02:00",
			want:  time.Date(2003, time.February, 24, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "naive T separator",
			input: "2003-02-24T10:30:00",
			want:  time.Date(2003, time.February, 24, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separator",
			input: "2003-02-24 10:30:00",
			want:  time.Date(2003, time.February, 24, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReportDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseReportDate_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"not a date",
		"24/88/2003",
		"0/10/2003",
		"13/40/2003",
		"2003/02/24",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReportDate(input)
			assert.Error(t, err)
		})
	}
}
