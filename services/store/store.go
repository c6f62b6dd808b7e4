package store

import "sjsage522/topicworker/internal/portal"

// TopicStore persists every topic seen so far
type TopicStore interface {
	// Load returns the persisted topics
	Load() ([]portal.Topic, error)

	// Save appends topics whose names are not stored yet
	Save(topics []portal.Topic) error
}

// NewTopics returns the fetched topics whose names are not among known,
// in fetched order and without duplicates.
func NewTopics(known, fetched []portal.Topic) []portal.Topic {
	seen := make(map[string]struct{}, len(known)+len(fetched))
	for _, t := range known {
		seen[t.Topic] = struct{}{}
	}

	var fresh []portal.Topic
	for _, t := range fetched {
		if _, ok := seen[t.Topic]; ok {
			continue
		}
		seen[t.Topic] = struct{}{}
		fresh = append(fresh, t)
	}
	return fresh
}
