package session

import "context"

// NoopStore is used when persistence is disabled. Conversations live only
// in memory for the process lifetime.
type NoopStore struct{}

func (s *NoopStore) Load(ctx context.Context) ([]*Conversation, error) {
	return nil, nil
}

func (s *NoopStore) Save(ctx context.Context, conversations []*Conversation) error {
	return nil
}

func (s *NoopStore) Close() error {
	return nil
}
