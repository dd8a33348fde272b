package devserver

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// Series parameters for the synthetic price path.
const (
	dailyDrift      = 0.0009
	dailyVolatility = 0.035
	momentumWindow  = 20
)

// ChartRow is one row of run-backtest's chart_data.
type ChartRow struct {
	Date     string  `json:"date"`
	Market   float64 `json:"market"`
	Strategy float64 `json:"strategy"`
}

// Simulate builds a deterministic equity curve for strategy on ticker over
// [start, end). The market leg is a seeded random walk; the strategy leg holds
// the asset only while its trailing momentum is positive, with the position
// taken from the previous day's signal. Both legs start at 1.0.
func Simulate(strategy, ticker string, start, end time.Time) []ChartRow {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", strategyKey(strategy), ticker)
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var (
		rows     []ChartRow
		closes   []float64
		price    = 100.0
		market   = 1.0
		equity   = 1.0
		position = 0.0
	)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if len(closes) > 0 {
			ret := dailyDrift + dailyVolatility*rng.NormFloat64()
			ret = math.Max(ret, -0.5)
			price *= 1 + ret
			market *= 1 + ret
			equity *= 1 + position*ret
		}
		closes = append(closes, price)

		position = 0
		if n := len(closes); n > momentumWindow && closes[n-1] > closes[n-1-momentumWindow] {
			position = 1
		}

		rows = append(rows, ChartRow{
			Date:     day.Format("2006-01-02"),
			Market:   round(market),
			Strategy: round(equity),
		})
	}
	return rows
}

// TotalReturn formats the strategy leg's final growth as a percentage with
// two decimals, e.g. "45.23%".
func TotalReturn(rows []ChartRow) string {
	if len(rows) == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", (rows[len(rows)-1].Strategy-1)*100)
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
