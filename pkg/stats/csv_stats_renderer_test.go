package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCsvStatsRendererImpl_RenderMonthly(t *testing.T) {
	day1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)
	day2 := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		stats MonthlyStats
		want  string
	}{
		{
			name: "renders days with totals and costs",
			stats: MonthlyStats{
				Year:    2025,
				Month:   time.March,
				Total:   5,
				Cost:    2.5,
				Average: 2.5,
				Days: []DailyStats{
					{Date: day1, Total: 2, Cost: 1.0},
					{Date: day2, Total: 3, Cost: 1.5},
				},
			},
			want: "Date,Logs,Cost\n" +
				"01/03/2025,2,$1.00\n" +
				"02/03/2025,3,$1.50\n" +
				"Total,5,$2.50\n" +
				"Average per day,2.50,\n",
		},
		{
			name: "renders an empty month",
			stats: MonthlyStats{
				Year:  2025,
				Month: time.March,
			},
			want: "Date,Logs,Cost\n" +
				"Total,0,$0.00\n" +
				"Average per day,0.00,\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewCsvStatsRenderer()
			got, err := renderer.RenderMonthly(tt.stats, "$")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
