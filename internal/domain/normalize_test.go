package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpot(t *testing.T) {
	today := time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)

	t.Run("aligned columns", func(t *testing.T) {
		table := RawSpotTable{
			Spot:       "La-Sauzaie",
			Days:       []string{"Sam_18", "Sam_18", "Sam_18"},
			Times:      []string{"matin", "après-midi", "soir"},
			Ratings:    []string{"2", "!", "0"},
			Waves:      []string{"1.5WSW", "1.8W", "2.1W"},
			Periods:    []string{"11", "12", "13"},
			Winds:      []string{"15E", "20ESE", "12S"},
			WindStates: []string{"offshore", "cross-off", "onshore"},
		}

		rows, report := NormalizeSpot(table, today)

		require.Len(t, rows, 3)
		assert.False(t, report.Empty())
		assert.False(t, report.Truncated())
		assert.Equal(t, ForecastRow{
			Spot:       "La-Sauzaie",
			DayLabel:   "Sam_18",
			DayNumber:  18,
			TimeOfDay:  "matin",
			Rating:     2,
			WaveHeight: 1.5,
			WaveDir:    "WSW",
			Period:     11,
			WindSpeed:  15,
			WindDir:    "E",
			WindState:  "Offshore",
		}, rows[0])
		assert.Equal(t, -1, rows[1].Rating)
		assert.Equal(t, "Cross-off", rows[1].WindState)
		assert.Equal(t, 0, rows[2].Rating)
	})

	t.Run("mandatory columns truncated to shortest", func(t *testing.T) {
		table := RawSpotTable{
			Spot:    "Tanchet",
			Days:    []string{"Sam_18", "Sam_18", "Sam_18", "Dim_19"},
			Times:   []string{"matin", "après-midi"},
			Ratings: []string{"1", "2", "3"},
		}

		rows, report := NormalizeSpot(table, today)

		require.Len(t, rows, 2)
		assert.True(t, report.Truncated())
		assert.Equal(t, 4, report.Days)
		assert.Equal(t, 2, report.Times)
		assert.Equal(t, 3, report.Ratings)
		assert.Equal(t, 2, report.Rows)
		assert.Equal(t, 2, rows[1].Rating)
	})

	t.Run("optional columns padded and truncated", func(t *testing.T) {
		table := RawSpotTable{
			Spot:    "Sion",
			Days:    []string{"Sam_18", "Sam_18", "Sam_18"},
			Times:   []string{"matin", "après-midi", "soir"},
			Ratings: []string{"1", "1", "1"},
			Waves:   []string{"1.0N"},
			Periods: []string{"9", "10", "11", "12", "13"},
		}

		rows, _ := NormalizeSpot(table, today)

		require.Len(t, rows, 3)
		assert.Equal(t, 1.0, rows[0].WaveHeight)
		assert.Equal(t, 0.0, rows[1].WaveHeight)
		assert.Empty(t, rows[2].WaveDir)
		assert.Equal(t, 11, rows[2].Period)
		assert.Zero(t, rows[2].WindSpeed)
		assert.Empty(t, rows[2].WindDir)
		assert.Empty(t, rows[2].WindState)
	})

	t.Run("empty mandatory column yields no rows", func(t *testing.T) {
		table := RawSpotTable{
			Spot:  "Les-Conches",
			Days:  []string{"Sam_18"},
			Times: []string{"matin"},
			Waves: []string{"1.0N"},
		}

		rows, report := NormalizeSpot(table, today)

		assert.Empty(t, rows)
		assert.True(t, report.Empty())
		assert.Equal(t, "Les-Conches", report.Spot)
	})

	t.Run("unparsable day label uses today", func(t *testing.T) {
		table := RawSpotTable{
			Days:    []string{"???"},
			Times:   []string{"matin"},
			Ratings: []string{"3"},
		}

		rows, _ := NormalizeSpot(table, today)

		require.Len(t, rows, 1)
		assert.Equal(t, 18, rows[0].DayNumber)
	})
}

func TestPadOrTruncate(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, padOrTruncate([]string{"a"}, 3))
	assert.Equal(t, []int{1, 2}, padOrTruncate([]int{1, 2, 3}, 2))
	assert.Equal(t, []float64{0, 0}, padOrTruncate[float64](nil, 2))
}
