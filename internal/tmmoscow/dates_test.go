package tmmoscow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		begins time.Time
		ends   time.Time
	}{
		{
			name:   "days range",
			text:   "5-7 октября 2023",
			begins: day(2023, time.October, 5),
			ends:   day(2023, time.October, 7),
		},
		{
			name:   "months range with suffix",
			text:   "30 сентября - 2 октября 2023 г.",
			begins: day(2023, time.September, 30),
			ends:   day(2023, time.October, 2),
		},
		{
			name:   "single day",
			text:   "12 мая 2024 года, Подмосковье",
			begins: day(2024, time.May, 12),
			ends:   day(2024, time.May, 12),
		},
		{
			name:   "en dash and capital month",
			text:   "Соревнования 1–3 Июня 2022",
			begins: day(2022, time.June, 1),
			ends:   day(2022, time.June, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			begins, ends, err := ParseDateRange(tt.text)
			require.NoError(t, err)
			require.NotNil(t, begins)
			require.NotNil(t, ends)
			assert.Equal(t, tt.begins, *begins)
			assert.Equal(t, tt.ends, *ends)
			assert.False(t, ends.Before(*begins))
		})
	}
}

func TestParseDateRange_NoMatch(t *testing.T) {
	begins, ends, err := ParseDateRange("Обновлено: 12.03.2023")
	assert.NoError(t, err)
	assert.Nil(t, begins)
	assert.Nil(t, ends)
}

func TestParseDateRange_Errors(t *testing.T) {
	_, _, err := ParseDateRange("5-7 2023")
	assert.ErrorIs(t, err, ErrUnknownMonth)

	_, _, err = ParseDateRange("5 брюмера 2023")
	assert.ErrorIs(t, err, ErrUnknownMonth)

	_, _, err = ParseDateRange("31 февраля 2023")
	assert.ErrorIs(t, err, ErrUnexpectedLayout)
}

func TestParseUpdatedAt(t *testing.T) {
	got := parseUpdatedAt("Обновлено: 12.03.2023", moscowTime)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2023, time.March, 12, 0, 0, 0, 0, moscowTime)))

	got = parseUpdatedAt(" обновлено 01.02.2024 ", time.UTC)
	require.NotNil(t, got)
	assert.True(t, got.Equal(day(2024, time.February, 1)))

	assert.Nil(t, parseUpdatedAt("вчера", moscowTime))
}
