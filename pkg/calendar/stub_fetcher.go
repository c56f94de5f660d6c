package calendar

import (
	"context"
	"time"
)

// StubFetcher returns a canned event list for tests.
type StubFetcher struct {
	Events []RawEvent
	Err    error
}

func NewStubFetcher(events ...RawEvent) *StubFetcher {
	return &StubFetcher{Events: events}
}

func (s *StubFetcher) FetchEvents(_ context.Context, _ time.Time) ([]RawEvent, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Events, nil
}
