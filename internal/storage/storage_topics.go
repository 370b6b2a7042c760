// /internal/storage/storage_topics.go
package storage

import (
	"sort"
	"strings"
	"time"
)

// TopicRecord tracks how long ago a topic was last discussed.
type TopicRecord struct {
	Topic string    `json:"topic"` // case-normalized
	Since time.Time `json:"since"`
	Count int       `json:"count"`
}

// TouchTopic registers a mention of a topic: first mention creates the
// record, later ones bump the counter and reset the clock. The returned
// record reflects the state *before* the touch, which is what gets shown
// to the user ("N days without X").
func (s *Storage) TouchTopic(title string, now time.Time) (TopicRecord, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	var before TopicRecord

	err := update(s, collTopics, func(docs map[string]TopicRecord) error {
		rec, ok := docs[key]
		if !ok {
			rec = TopicRecord{Topic: key, Since: now, Count: 0}
		}
		before = rec
		if !ok {
			before.Count = 1
		}

		rec.Count++
		rec.Since = now
		docs[key] = rec
		return nil
	})
	return before, err
}

// TopTopics returns up to limit topics, most discussed first.
func (s *Storage) TopTopics(limit int) ([]TopicRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := loadColl[TopicRecord](s, collTopics)
	if err != nil {
		return nil, err
	}

	list := make([]TopicRecord, 0, len(docs))
	for _, rec := range docs {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Topic < list[j].Topic
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
