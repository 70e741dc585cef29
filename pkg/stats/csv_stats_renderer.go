package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// StatsRenderer renders a monthly breakdown into an export format.
type StatsRenderer interface {
	RenderMonthly(stats MonthlyStats, currencySymbol string) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderMonthly produces one row per calendar day plus a total and an average
// row.
func (t *CsvStatsRendererImpl) RenderMonthly(stats MonthlyStats, currencySymbol string) (string, error) {
	data := make([][]string, 0, len(stats.Days)+3)
	data = append(data, []string{"Date", "Logs", "Cost"})

	for _, daily := range stats.Days {
		data = append(data, []string{
			daily.Date.Format("02/01/2006"),
			strconv.Itoa(daily.Total),
			moneyToString(daily.Cost, currencySymbol),
		})
	}

	data = append(data, []string{"Total", strconv.Itoa(stats.Total), moneyToString(stats.Cost, currencySymbol)})
	data = append(data, []string{"Average per day", strconv.FormatFloat(stats.Average, 'f', 2, 64), ""})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func moneyToString(amount float64, currencySymbol string) string {
	return currencySymbol + strconv.FormatFloat(amount, 'f', 2, 64)
}
