package scoring

import "sort"

// WeakTopicThreshold is the accuracy below which a topic needs practice.
const WeakTopicThreshold = 70.0

// TopicStat is a topic's accuracy across one or more results.
type TopicStat struct {
	Topic      string  `json:"topic"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// MergeTopics adds up the topic breakdowns of several results. The stats
// are sorted by ascending accuracy, ties broken by topic name.
func MergeTopics(results []TestResult) []TopicStat {
	totals := make(map[string]TopicScore)
	for _, r := range results {
		for topic, s := range r.TopicBreakdown {
			t := totals[topic]
			t.Correct += s.Correct
			t.Total += s.Total
			totals[topic] = t
		}
	}

	stats := make([]TopicStat, 0, len(totals))
	for topic, s := range totals {
		if s.Total == 0 {
			continue
		}
		stats = append(stats, TopicStat{
			Topic:      topic,
			Correct:    s.Correct,
			Total:      s.Total,
			Percentage: s.Percentage(),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage < stats[j].Percentage
		}
		return stats[i].Topic < stats[j].Topic
	})
	return stats
}

// WeakTopics returns the topics below WeakTopicThreshold, weakest first.
func WeakTopics(results []TestResult) []TopicStat {
	var weak []TopicStat
	for _, s := range MergeTopics(results) {
		if s.Percentage < WeakTopicThreshold {
			weak = append(weak, s)
		}
	}
	return weak
}
