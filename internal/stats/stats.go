// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuishi/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy for a session. Accuracy is
// a fraction in [0, 1]; a session with nothing typed counts as fully accurate.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	accuracy = 1
	if den := float64(correct + incorrect); den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions followed by WPM and accuracy
// sparklines smoothed over window sessions and limited to width columns.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	skipped := 0
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		skipped += s.Skipped
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Skipped characters: %d", skipped),
		fmt.Sprintf("Last: %s", sessions[len(sessions)-1].Title),
	}
	if len(sessions) > 1 {
		lines = append(lines,
			"WPM      "+Sparkline(tail(MovingAverage(wpms, window), width-9)),
			"Accuracy "+Sparkline(tail(MovingAverage(accs, window), width-9)),
		)
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character results, lowest accuracy first,
// limited to top rows when top > 0.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := HardestChars(aggs, top)

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		label := r.Char
		switch label {
		case " ":
			label = "<space>"
		case "\n":
			label = "<enter>"
		}
		tableRows = append(tableRows, []string{
			label,
			fmt.Sprintf("%.2f%%", charAccuracy(r)*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HardestChars sorts aggregates by ascending accuracy, then by attempts
// descending, and keeps the first top entries when top > 0.
func HardestChars(aggs []model.CharAggregate, top int) []model.CharAggregate {
	out := make([]model.CharAggregate, len(aggs))
	copy(out, aggs)
	sort.Slice(out, func(i, j int) bool {
		ai, aj := charAccuracy(out[i]), charAccuracy(out[j])
		if ai != aj {
			return ai < aj
		}
		ti, tj := out[i].Correct+out[i].Incorrect, out[j].Correct+out[j].Incorrect
		if ti != tj {
			return ti > tj
		}
		return out[i].Char < out[j].Char
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}

func charAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
