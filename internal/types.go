package internal

import (
	"sjsage522/topicworker/internal/portal"
	"sjsage522/topicworker/services/cache"
	"sjsage522/topicworker/services/notifier"
	"sjsage522/topicworker/services/publisher"
	"sjsage522/topicworker/services/store"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     store.TopicStore
	Notifier  notifier.Notifier
	Portal    *portal.Client
}

// Cleanup releases service connections
func (d *Dependencies) Cleanup() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
}
