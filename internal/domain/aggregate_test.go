package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dated(spot string, day, hour, rating int) DatedForecastRow {
	return DatedForecastRow{
		ForecastRow: ForecastRow{Spot: spot, DayNumber: day, TimeOfDay: "matin", Rating: rating},
		Date:        date(2024, 5, day),
		Hour:        hour,
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
	assert.Nil(t, Aggregate([][]DatedForecastRow{nil, {}}))
}

func TestAggregate_KeepsOnlyBestSpots(t *testing.T) {
	spotA := []DatedForecastRow{dated("A", 18, 9, 3), dated("A", 18, 15, 3)}
	spotB := []DatedForecastRow{dated("B", 18, 9, 5), dated("B", 18, 15, 5)}

	slots := Aggregate([][]DatedForecastRow{spotA, spotB})

	require.Len(t, slots, 2)
	for _, slot := range slots {
		assert.Equal(t, 5, slot.BestRating)
		assert.Equal(t, []string{"B"}, slot.Spots)
	}
}

func TestAggregate_TieKeepsAllInInputOrder(t *testing.T) {
	spotA := []DatedForecastRow{dated("A", 18, 9, 4), dated("A", 18, 15, 4)}
	spotB := []DatedForecastRow{dated("B", 18, 9, 4), dated("B", 18, 15, 4)}

	slots := Aggregate([][]DatedForecastRow{spotA, spotB})

	require.Len(t, slots, 2)
	for _, slot := range slots {
		assert.Equal(t, 4, slot.BestRating)
		assert.Equal(t, []string{"A", "B"}, slot.Spots)
	}
}

func TestAggregate_Saturation(t *testing.T) {
	t.Run("saturated loses to any positive rating", func(t *testing.T) {
		slots := Aggregate([][]DatedForecastRow{
			{dated("A", 18, 9, -1)},
			{dated("B", 18, 9, 1)},
		})
		require.Len(t, slots, 1)
		assert.Equal(t, 1, slots[0].BestRating)
		assert.Equal(t, []string{"B"}, slots[0].Spots)
	})

	t.Run("zero beats saturated", func(t *testing.T) {
		slots := Aggregate([][]DatedForecastRow{
			{dated("A", 18, 9, -1)},
			{dated("B", 18, 9, 0)},
		})
		require.Len(t, slots, 1)
		assert.Equal(t, 0, slots[0].BestRating)
		assert.Equal(t, []string{"B"}, slots[0].Spots)
	})

	t.Run("all saturated", func(t *testing.T) {
		slots := Aggregate([][]DatedForecastRow{
			{dated("A", 18, 9, -1)},
			{dated("B", 18, 9, -1)},
		})
		require.Len(t, slots, 1)
		assert.Equal(t, -1, slots[0].BestRating)
		assert.Equal(t, []string{"A", "B"}, slots[0].Spots)
	})
}

func TestAggregate_ReducesConditions(t *testing.T) {
	a := dated("A", 18, 9, 4)
	a.WaveHeight, a.Period, a.WaveDir = 1.2, 14, "W"
	a.WindSpeed, a.WindDir, a.WindState = 10, "E", "Offshore"

	b := dated("B", 18, 9, 4)
	b.WaveHeight, b.Period, b.WaveDir = 1.8, 11, "NW"
	b.WindSpeed, b.WindDir, b.WindState = 25, "SW", "Onshore"

	c := dated("C", 18, 9, 2)
	c.WaveHeight, c.Period = 3.0, 18

	slots := Aggregate([][]DatedForecastRow{{a}, {b}, {c}})

	want := []ConsolidatedSlot{{
		Key:        NewSlotKey(date(2024, 5, 18), 9),
		TimeOfDay:  "matin",
		BestRating: 4,
		Spots:      []string{"A", "B"},
		WaveHeight: 1.8,
		Period:     14,
		WaveDir:    "W",
		WindSpeed:  10,
		WindDir:    "E",
		WindState:  "Offshore",
	}}
	if diff := cmp.Diff(want, slots); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SortsByDateThenHour(t *testing.T) {
	slots := Aggregate([][]DatedForecastRow{
		{dated("A", 19, 9, 1), dated("A", 18, 18, 1), dated("A", 18, 9, 1)},
		{dated("B", 18, 15, 1)},
	})

	require.Len(t, slots, 4)
	var keys []string
	for _, slot := range slots {
		keys = append(keys, slot.Key.String())
	}
	assert.Equal(t, []string{
		"2024-05-18 09:00",
		"2024-05-18 15:00",
		"2024-05-18 18:00",
		"2024-05-19 09:00",
	}, keys)
}

func TestAggregate_DeduplicatesSpotWithinSlot(t *testing.T) {
	slots := Aggregate([][]DatedForecastRow{
		{dated("A", 18, 12, 3), dated("A", 18, 12, 3)},
		{dated("B", 18, 12, 3)},
	})

	require.Len(t, slots, 1)
	assert.Equal(t, []string{"A", "B"}, slots[0].Spots)
}
