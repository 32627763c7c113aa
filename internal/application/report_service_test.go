package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showing"
)

func TestReportService_Generate(t *testing.T) {
	c := newTestCatalog(t, newMemStore(), newMemStore())
	late, err := c.AddShowing(at(10, 20, 0), showing.Movie{Title: "Alien"}, "Sala 1")
	require.NoError(t, err)
	early, err := c.AddShowing(at(10, 14, 0), showing.Movie{Title: "Dune"}, "Sala 2")
	require.NoError(t, err)
	for _, id := range []string{"A1", "A2", "B5"} {
		require.NoError(t, late.ReserveSeat(id))
	}

	lines := NewReportService(c, testPrice).Generate()

	require.Len(t, lines, 2)
	assert.Equal(t, ReportLine{StartAt: early.StartAt, Room: "Sala 2", Title: "Dune"}, lines[0])
	assert.Equal(t, ReportLine{StartAt: late.StartAt, Room: "Sala 1", Title: "Alien", SeatsSold: 3, Revenue: 45000}, lines[1])

	t.Run("売上は販売座席数と単価の積", func(t *testing.T) {
		for _, l := range lines {
			assert.Equal(t, l.SeatsSold*testPrice, l.Revenue)
		}
	})

	t.Run("合計", func(t *testing.T) {
		assert.Equal(t, ReportTotals{Showings: 2, SeatsSold: 3, Revenue: 45000}, Totals(lines))
	})
}

func TestReportService_Empty(t *testing.T) {
	c := newTestCatalog(t, newMemStore(), newMemStore())

	lines := NewReportService(c, testPrice).Generate()

	assert.Empty(t, lines)
	assert.Equal(t, ReportTotals{}, Totals(lines))
}
