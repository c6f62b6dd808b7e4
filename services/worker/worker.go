package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"sjsage522/topicworker/helpers"
	"sjsage522/topicworker/internal/portal"
	"sjsage522/topicworker/logger"
	apperrors "sjsage522/topicworker/pkg/errors"
	"sjsage522/topicworker/services/notifier"
	"sjsage522/topicworker/services/publisher"
	"sjsage522/topicworker/services/store"
)

// maxAttempts bounds fetches per cycle: the first try plus one after re-login
const maxAttempts = 2

// TopicSource is the authenticated portal session
type TopicSource interface {
	Login(ctx context.Context) error
	Relogin(ctx context.Context) error
	FetchTopics(ctx context.Context) ([]portal.Topic, error)
}

// Worker runs topic checks
type Worker struct {
	source    TopicSource
	store     store.TopicStore
	notifier  notifier.Notifier
	publisher publisher.Publisher
	errLog    helpers.LoggerInterface
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil.
func NewWorker(
	source TopicSource,
	topicStore store.TopicStore,
	n notifier.Notifier,
	pub publisher.Publisher,
	errLog helpers.LoggerInterface,
) *Worker {
	return &Worker{
		source:    source,
		store:     topicStore,
		notifier:  n,
		publisher: pub,
		errLog:    errLog,
		log:       logger.ForWorker(),
	}
}

// Seed stores every currently listed topic without sending notifications
func (w *Worker) Seed(ctx context.Context) error {
	topics, err := w.fetchWithRelogin(ctx)
	if err != nil {
		w.errLog.LogError("worker", err)
		return err
	}

	if err := w.store.Save(topics); err != nil {
		w.errLog.LogError("worker", err)
		return err
	}

	w.log.Info().Int("count", len(topics)).Msg("Stored initial topics")
	return nil
}

// RunCycle checks the portal once and announces topics not seen before.
// It returns the new topics.
func (w *Worker) RunCycle(ctx context.Context) ([]portal.Topic, error) {
	w.log.Info().Msg("Checking for new topics")

	known, err := w.store.Load()
	if err != nil {
		w.errLog.LogError("worker", err)
		return nil, err
	}

	topics, err := w.fetchWithRelogin(ctx)
	if err != nil {
		w.errLog.LogError("worker", err)
		return nil, err
	}

	fresh := store.NewTopics(known, topics)
	if len(fresh) == 0 {
		w.log.Info().Int("fetched", len(topics)).Msg("No new topics")
		return nil, nil
	}

	w.log.Info().Int("count", len(fresh)).Msg("New topics found")
	if err := w.store.Save(fresh); err != nil {
		w.errLog.LogError("worker", err)
		return nil, err
	}

	for _, topic := range fresh {
		w.announce(ctx, topic)
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(ctx); err != nil {
			w.errLog.LogError("StreamTrimming", err)
		}
	}

	return fresh, nil
}

// fetchWithRelogin fetches topics, logging in again once if the session expired
func (w *Worker) fetchWithRelogin(ctx context.Context) ([]portal.Topic, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		w.log.Debug().Int("attempt", attempt).Msg("Fetching topics")

		topics, err := w.source.FetchTopics(ctx)
		if err == nil {
			return topics, nil
		}
		if !apperrors.IsRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		w.log.Warn().Msg("Session expired, re-logging in")
		if err := w.source.Relogin(ctx); err != nil {
			return nil, fmt.Errorf("re-login failed: %w", err)
		}
	}

	return nil, fmt.Errorf("session still expired after %d attempts: %w", maxAttempts, lastErr)
}

// announce notifies about a topic; failures are logged and do not stop the cycle
func (w *Worker) announce(ctx context.Context, topic portal.Topic) {
	if err := w.notifier.Notify(ctx, topic); err != nil {
		w.errLog.LogError("notifier", err)
	}

	if w.publisher == nil {
		return
	}

	data, err := json.Marshal(topic)
	if err != nil {
		w.errLog.LogError("publisher", err)
		return
	}
	if err := w.publisher.Publish(ctx, "topic", data); err != nil {
		w.errLog.LogError("publisher", err)
	}
}
