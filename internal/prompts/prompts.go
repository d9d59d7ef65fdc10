// Package prompts provides sample practice sentences grouped by topic.
package prompts

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"
)

// DefaultTopics lists the built-in topic ids in display order.
var DefaultTopics = []string{"daily", "travel", "business", "academic", "intro"}

var defaultSentences = map[string][]string{
	"daily": {
		"Could you tell me what time the store opens tomorrow?",
		"I usually take a short walk after dinner.",
		"It looks like it is going to rain this afternoon.",
		"Let's meet at the coffee shop near the station.",
	},
	"travel": {
		"I would like a window seat, please.",
		"How far is the museum from this hotel?",
		"Could you recommend a good local restaurant?",
		"My flight has been delayed by two hours.",
	},
	"business": {
		"Thank you for joining today's meeting.",
		"Let us review the quarterly results before we decide.",
		"I will send the updated proposal by Friday.",
		"Could we schedule a follow-up call next week?",
	},
	"academic": {
		"The results of the experiment support our hypothesis.",
		"This paper examines the effects of climate change on agriculture.",
		"Further research is needed to confirm these findings.",
		"Let me summarize the main points of my presentation.",
	},
	"intro": {
		"Hello, my name is Alex and I am a software engineer.",
		"I have been learning English for three years.",
		"In my free time I enjoy reading and playing the piano.",
		"I am excited to be part of this team.",
	},
}

// Bank holds sentences per topic and picks them at random.
type Bank struct {
	rnd       *rand.Rand
	sentences map[string][]string
}

// New returns a Bank seeded with the current time. Overrides replace the built-in
// sentences of a topic, or add a new topic.
func New(overrides map[string][]string) *Bank {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()), overrides)
}

// NewWithSource returns a Bank using src for randomness.
func NewWithSource(src rand.Source, overrides map[string][]string) *Bank {
	sentences := make(map[string][]string, len(defaultSentences)+len(overrides))
	for topic, list := range defaultSentences {
		sentences[topic] = list
	}
	for topic, list := range overrides {
		cleaned := clean(list)
		if len(cleaned) == 0 {
			continue
		}
		sentences[topic] = cleaned
	}
	return &Bank{rnd: rand.New(src), sentences: sentences}
}

// Pick returns a random sentence for topic. The bool is false when the topic has none.
func (b *Bank) Pick(topic string) (string, bool) {
	list := b.sentences[topic]
	if len(list) == 0 {
		return "", false
	}
	return list[b.rnd.Intn(len(list))], true
}

// Sentences returns the sentences for topic.
func (b *Bank) Sentences(topic string) []string {
	return b.sentences[topic]
}

// Topics returns every topic that has sentences, built-in topics first.
func (b *Bank) Topics() []string {
	out := make([]string, 0, len(b.sentences))
	seen := map[string]bool{}
	for _, topic := range DefaultTopics {
		if len(b.sentences[topic]) > 0 {
			out = append(out, topic)
			seen[topic] = true
		}
	}
	var extra []string
	for topic := range b.sentences {
		if !seen[topic] {
			extra = append(extra, topic)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// LoadFile reads one sentence per line. Blank lines and lines starting with '#' are skipped.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sentence file.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sentences := clean(lines)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("sentence file is empty")
	}
	return sentences, nil
}

func clean(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
