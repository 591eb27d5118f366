package surfforecast

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open("testdata/six_day.html")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseForecastTable(t *testing.T) {
	table, err := ParseForecastTable("La-Sauzaie", loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "La-Sauzaie", table.Spot)
	assert.Equal(t, []string{
		"Sam_18", "Sam_18", "Sam_18",
		"Dim_19", "Dim_19", "Dim_19",
		"Lun_20",
	}, table.Days)
	assert.Equal(t, []string{
		"matin", "après-midi", "soir",
		"matin", "après-midi", "soir",
		"matin",
	}, table.Times)
	assert.Equal(t, []string{"2", "3", "!", "0", "4", "1", "2"}, table.Ratings)
	assert.Equal(t, "1.2WNW", table.Waves[0])
	assert.Len(t, table.Waves, 7)
	assert.Equal(t, []string{"9", "10", "11", "12", "13"}, table.Periods)
	assert.Equal(t, "15ENE", table.Winds[0])
	assert.Equal(t, "offshore", table.WindStates[0])
}

func TestParseForecastTable_MissingRows(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		missing string
	}{
		{
			name:    "no days row",
			html:    `<table><tr data-row-name="time"><td>matin</td></tr></table>`,
			missing: "days",
		},
		{
			name:    "no time row",
			html:    `<table><tr data-row-name="days"><td data-day-name="Sam_18">S</td></tr></table>`,
			missing: "time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForecastTable("Sion", strings.NewReader(tt.html))
			require.ErrorIs(t, err, ErrLayout)
			assert.Contains(t, err.Error(), tt.missing)
			assert.Contains(t, err.Error(), "Sion")
		})
	}
}

func TestParseForecastTable_OptionalRowsAbsent(t *testing.T) {
	html := `<table>
<tr data-row-name="days"><td colspan="2" data-day-name="Sam_18"></td><td colspan="bogus" data-day-name="Dim_19"></td></tr>
<tr data-row-name="time"><td>matin</td><td>soir</td><td>matin</td></tr>
<tr data-row-name="rating"><td><div class="star-rating">3</div></td></tr>
</table>`

	table, err := ParseForecastTable("Tanchet", strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sam_18", "Sam_18", "Dim_19"}, table.Days)
	assert.Equal(t, []string{"3"}, table.Ratings)
	assert.Empty(t, table.Waves)
	assert.Empty(t, table.Periods)
	assert.Empty(t, table.Winds)
	assert.Empty(t, table.WindStates)
}
