package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	sets   map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		sets:   make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, ns, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[compose(ns, key)], nil
}

func (m *Memory) Set(_ context.Context, ns, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[compose(ns, key)] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, ns, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, compose(ns, key))
	delete(m.sets, compose(ns, key))
	return nil
}

func (m *Memory) SAdd(_ context.Context, ns, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := compose(ns, key)
	set, ok := m.sets[k]
	if !ok {
		set = make(map[string]struct{})
		m.sets[k] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}
	return nil
}

func (m *Memory) SRem(_ context.Context, ns, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[compose(ns, key)]
	if !ok {
		return nil
	}
	for _, member := range members {
		delete(set, member)
	}
	return nil
}

func (m *Memory) SMembers(_ context.Context, ns, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.sets[compose(ns, key)]
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	return members, nil
}
