package iot

import (
	"context"
	"encoding/json"
	"sync"
)

// PublishedDoc records one call against the stub publisher.
type PublishedDoc struct {
	Topic string
	Key   string
	Doc   any
	Bytes int
}

// StubPublisher collects published documents in memory for tests.
type StubPublisher struct {
	mu        sync.Mutex
	Published []PublishedDoc
	Shadows   []PublishedDoc
	Err       error
}

func NewStubPublisher() *StubPublisher {
	return &StubPublisher{}
}

func (s *StubPublisher) Publish(_ context.Context, topic string, doc any) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, PublishedDoc{Topic: topic, Doc: doc, Bytes: len(data)})
	return len(data), nil
}

func (s *StubPublisher) UpdateShadow(_ context.Context, key string, doc any) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Shadows = append(s.Shadows, PublishedDoc{Key: key, Doc: doc})
	return nil
}

func (s *StubPublisher) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = nil
	s.Shadows = nil
}
