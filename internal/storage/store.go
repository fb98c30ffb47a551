// Package storage provides the client's persistent key/value store.
//
// The store is the local durability boundary: a synchronous key → string
// facility scoped to one client installation, surviving restarts. It holds
// the session index under one key and each session transcript under its
// own key. Nothing else is persisted.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound indicates the key has no stored value
var ErrNotFound = errors.New("storage: key not found")

// Store is a synchronous key → string get/set/delete facility.
// Delete of an absent key is a no-op. Set failures (e.g. the device is
// out of space) propagate to the caller.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Disk stores each key as a file under a scoped directory.
type Disk struct {
	dir string
	mu  sync.RWMutex
}

// NewDisk creates a disk-backed store rooted at dir, creating it if needed
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Get returns the stored value for key, or ErrNotFound
func (d *Disk) Get(key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(data), nil
}

// Set writes value under key, replacing any prior value.
// The write goes through a temp file and rename so a crash mid-write
// never leaves a torn record.
func (d *Disk) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

// Delete removes key; absent keys are a no-op
func (d *Disk) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key)
}

// Memory is an in-process store for tests and ephemeral runs
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
