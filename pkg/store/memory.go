package store

import (
	"context"
	"fmt"

	"github.com/pwalczyk/dockerop/pkg/connection"
)

// MemoryStore is a map-backed store for tests and examples.
type MemoryStore struct {
	connections map[string]*connection.Record
	variables   map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		connections: make(map[string]*connection.Record),
		variables:   make(map[string]string),
	}
}

// AddConnection registers a connection record under the given identifier.
func (s *MemoryStore) AddConnection(connectionID string, record *connection.Record) {
	s.connections[connectionID] = record
}

// AddVariable registers a variable value under the given key.
func (s *MemoryStore) AddVariable(key, value string) {
	s.variables[key] = value
}

// GetConnection implements connection.Store.
func (s *MemoryStore) GetConnection(_ context.Context, connectionID string) (*connection.Record, error) {
	record, ok := s.connections[connectionID]
	if !ok {
		return nil, fmt.Errorf("connection %q not found", connectionID)
	}
	return record, nil
}

// GetVariable implements variable.Store.
func (s *MemoryStore) GetVariable(_ context.Context, key string) (string, error) {
	value, ok := s.variables[key]
	if !ok {
		return "", fmt.Errorf("variable %q not found", key)
	}
	return value, nil
}
