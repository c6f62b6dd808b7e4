package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/google/renameio/v2"

	"sjsage522/topicworker/internal/portal"
	"sjsage522/topicworker/logger"
	apperrors "sjsage522/topicworker/pkg/errors"
)

const component = "store"

// JSONFileStore keeps topics as an indented JSON array in a single file
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONFileStore creates a store backed by path. The file is created on first save.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Load returns the stored topics, or an empty list when the file does not exist
func (s *JSONFileStore) Load() ([]portal.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *JSONFileStore) load() ([]portal.Topic, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []portal.Topic{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStorage(component, "failed to read topics file", err)
	}

	topics := []portal.Topic{}
	if len(bytes.TrimSpace(data)) == 0 {
		return topics, nil
	}
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, apperrors.NewStorage(component, "failed to decode topics file", err)
	}
	return topics, nil
}

// Save merges topics into the file by topic name and rewrites it atomically
func (s *JSONFileStore) Save(topics []portal.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}

	added := NewTopics(existing, topics)
	merged := append(existing, added...)

	if err := s.write(merged); err != nil {
		return err
	}

	logger.ForStore().Debug().
		Int("added", len(added)).
		Int("total", len(merged)).
		Str("path", s.path).
		Msg("Saved topics")
	return nil
}

func (s *JSONFileStore) write(topics []portal.Topic) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(topics); err != nil {
		return apperrors.NewStorage(component, "failed to encode topics", err)
	}

	if err := renameio.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewStorage(component, "failed to write topics file", err)
	}
	return nil
}
