// Package snapshots keeps the latest extracted job snapshot per key (a page
// URL or a browser tab) until it is explicitly deleted or expires.
package snapshots

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// ErrNotFound is returned by Get when no snapshot is stored under the key.
var ErrNotFound = errors.New("snapshot not found")

// ErrEmptyKey is returned when a blank key is used.
var ErrEmptyKey = errors.New("snapshot key is empty")

// Store is a keyed snapshot cache. Delete is the eviction hook for a closed
// page and never fails for a missing key.
type Store interface {
	Put(ctx context.Context, key string, snap types.JobSnapshot) error
	Get(ctx context.Context, key string) (*types.JobSnapshot, error)
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]types.JobSnapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]types.JobSnapshot)}
}

func (m *MemoryStore) Put(_ context.Context, key string, snap types.JobSnapshot) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = clone(snap)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (*types.JobSnapshot, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	snap = clone(snap)
	return &snap, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len reports the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// clone deep-copies the list and pointer fields so callers never share
// storage with the cache.
func clone(snap types.JobSnapshot) types.JobSnapshot {
	snap.Skills = slices.Clone(snap.Skills)
	snap.PreferredQualifications = slices.Clone(snap.PreferredQualifications)
	snap.RequiredQuestions = slices.Clone(snap.RequiredQuestions)
	if snap.ClientPaymentVerified != nil {
		verified := *snap.ClientPaymentVerified
		snap.ClientPaymentVerified = &verified
	}
	return snap
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
