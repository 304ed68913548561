package storage

import "context"

// NoopStore remembers nothing.
type NoopStore struct {
}

func (s *NoopStore) Open(ctx context.Context) error {
	return nil
}

func (s *NoopStore) Close(ctx context.Context) error {
	return nil
}

func (s *NoopStore) Put(ctx context.Context, name string, values []string) error {
	return nil
}

func (s *NoopStore) Get(ctx context.Context, name string) ([]string, error) {
	return nil, NotFound
}

func (s *NoopStore) Names(ctx context.Context) ([]string, error) {
	return nil, nil
}
