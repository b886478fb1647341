// Package storagetest provides an in-memory storage.BlobStore for tests.
package storagetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"freewriter/internal/infrastructure/storage"
)

var ErrNoSuchKey = errors.New("no such key")

type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// UploadErr, when set, fails every Upload.
	UploadErr error
	// FailUploads fails the next n uploads with ErrUploadFailed.
	FailUploads int
}

var ErrUploadFailed = errors.New("upload failed")

var _ storage.BlobStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *Memory) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	if m.FailUploads > 0 {
		m.FailUploads--
		return "", ErrUploadFailed
	}
	m.objects[key] = append([]byte(nil), data...)
	m.types[key] = contentType
	return m.PublicURL(key), nil
}

func (m *Memory) Download(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNoSuchKey
	}
	return data, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *Memory) RemoveObjects(ctx context.Context, keys []string) error {
	for _, k := range keys {
		_ = m.Delete(ctx, k)
	}
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return "http://blobs.test/" + key
}

// Keys lists stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Memory) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[key]
}
