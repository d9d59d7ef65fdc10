// Package stats contains practice history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuispeak/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of practice records.
type Summary struct {
	Count            int
	AvgScore         float64
	BestScore        float64
	AvgPronunciation float64
	AvgFluency       float64
}

// Summarize computes averages and the best score.
func Summarize(records []model.PracticeRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	var s Summary
	s.Count = len(records)
	for _, r := range records {
		s.AvgScore += r.Score
		s.AvgPronunciation += r.PronunciationScore
		s.AvgFluency += r.FluencyScore
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
	}
	n := float64(len(records))
	s.AvgScore /= n
	s.AvgPronunciation /= n
	s.AvgFluency /= n
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
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
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, records []model.PracticeRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No practice records found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Count),
		fmt.Sprintf("Avg Score: %.1f", s.AvgScore),
		fmt.Sprintf("Best Score: %.1f", s.BestScore),
		fmt.Sprintf("Avg Pronunciation: %.1f", s.AvgPronunciation),
		fmt.Sprintf("Avg Fluency: %.1f", s.AvgFluency),
	}
	if skill, gap := WeakestSkill(records); skill != "" {
		lines = append(lines, fmt.Sprintf("Focus: %s (%.1f below the other)", skill, gap))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a moving-average sparkline of scores, oldest to newest.
func RenderTrend(w io.Writer, records []model.PracticeRecord, window, width int) error {
	if len(records) < 2 {
		return nil
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.Score
	}
	scores = MovingAverage(scores, window)
	if width > 0 && len(scores) > width {
		scores = Resample(scores, width)
	}
	if _, err := fmt.Fprintf(w, "Score Trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(scores)); err != nil {
		return err
	}
	return nil
}

// RenderRecordTable prints one row per record, newest first.
func RenderRecordTable(w io.Writer, records []model.PracticeRecord, textWidth int) error {
	if len(records) == 0 {
		return nil
	}
	if textWidth < 8 {
		textWidth = 8
	}
	headers := []string{"Date", "Topic", "Score", "Pron.", "Fluency", "Text"}
	rows := make([][]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		rows = append(rows, []string{
			r.PracticedAt.Local().Format("2006-01-02 15:04"),
			r.Topic,
			fmt.Sprintf("%.0f", r.Score),
			fmt.Sprintf("%.0f", r.PronunciationScore),
			fmt.Sprintf("%.0f", r.FluencyScore),
			truncate(r.Text, textWidth),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Resample averages values into width buckets.
func Resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
