package stats

import "github.com/verte-zerg/tuispeak/internal/model"

// WeakestSkill names the sub-score with the lower average and the gap to the other.
// It returns "" when there are no records or the averages are equal.
func WeakestSkill(records []model.PracticeRecord) (string, float64) {
	s := Summarize(records)
	if s.Count == 0 {
		return "", 0
	}
	switch {
	case s.AvgPronunciation < s.AvgFluency:
		return "pronunciation", s.AvgFluency - s.AvgPronunciation
	case s.AvgFluency < s.AvgPronunciation:
		return "fluency", s.AvgPronunciation - s.AvgFluency
	default:
		return "", 0
	}
}
