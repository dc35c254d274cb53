package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"brentmlu/internal/mlu"
)

// NotApplicable marks the instance column of imputed rows.
const NotApplicable = "NA"

// StatisticsHeader returns the header row for the metric.
func StatisticsHeader(metric mlu.Metric) []string {
	return []string{"mom", "word", "totalal", "totale", metric.Column(), "instances", "isolal", "isole"}
}

// WriteStatistics writes one row per statistic.
func WriteStatistics(w io.Writer, metric mlu.Metric, stats []mlu.Statistic) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StatisticsHeader(metric)); err != nil {
		return fmt.Errorf("write statistics header: %w", err)
	}
	for _, s := range stats {
		if err := cw.Write(StatisticRow(s)); err != nil {
			return fmt.Errorf("write statistics row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush statistics: %w", err)
	}
	return nil
}

// StatisticRow renders s in statistics column order.
func StatisticRow(s mlu.Statistic) []string {
	instances := strconv.Itoa(s.TotalAll)
	if s.Imputed {
		instances = NotApplicable
	}
	return []string{
		s.Speaker,
		s.Lemma,
		strconv.Itoa(s.TotalAll),
		strconv.Itoa(s.TotalEarly),
		FormatMedian(s.Median),
		instances,
		strconv.Itoa(s.IsolationAll),
		strconv.Itoa(s.IsolationEarly),
	}
}

// FormatMedian prints the shortest exact decimal form, e.g. "3" or "2.5".
func FormatMedian(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
