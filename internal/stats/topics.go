package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// TopicStat summarizes records for one topic.
type TopicStat struct {
	Topic    string
	Count    int
	AvgScore float64
}

// TopicsByFrequency returns per-topic stats, most practiced first.
func TopicsByFrequency(records []model.PracticeRecord) []TopicStat {
	if len(records) == 0 {
		return nil
	}
	byTopic := map[string]*TopicStat{}
	for _, r := range records {
		topic := r.Topic
		if topic == "" {
			topic = "(none)"
		}
		st, ok := byTopic[topic]
		if !ok {
			st = &TopicStat{Topic: topic}
			byTopic[topic] = st
		}
		st.Count++
		st.AvgScore += r.Score
	}
	out := make([]TopicStat, 0, len(byTopic))
	for _, st := range byTopic {
		st.AvgScore /= float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// RenderTopicTable prints per-topic stats.
func RenderTopicTable(w io.Writer, records []model.PracticeRecord) error {
	topics := TopicsByFrequency(records)
	if len(topics) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Topic"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, []string{t.Topic, fmt.Sprintf("%d", t.Count), fmt.Sprintf("%.1f", t.AvgScore)})
	}
	for _, line := range formatTable([]string{"Topic", "Attempts", "Avg Score"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
