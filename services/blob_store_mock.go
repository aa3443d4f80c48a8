package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockBlobStore is an in-memory BlobStore for testing
type MockBlobStore struct {
	Bucket string

	mu        sync.RWMutex
	presigned map[string]string // key to content type
	deleted   []string
	DeleteErr error
}

// NewMockBlobStore creates a new mock blob store
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Bucket:    "test-bucket",
		presigned: make(map[string]string),
	}
}

func (m *MockBlobStore) PresignPut(ctx context.Context, key, contentType string, size int64, expires time.Duration) (string, error) {
	m.mu.Lock()
	m.presigned[key] = contentType
	m.mu.Unlock()

	return fmt.Sprintf("%s?X-Amz-Expires=%d&mock=true", m.ObjectURL(key), int(expires.Seconds())), nil
}

func (m *MockBlobStore) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.us-east-1.amazonaws.com/%s", m.Bucket, key)
}

func (m *MockBlobStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromVirtualHostedURL(rawURL, m.Bucket)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	return nil
}

// Presigned reports whether an upload URL was issued for key
func (m *MockBlobStore) Presigned(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.presigned[key]
	return ok
}

// Deleted returns the keys deleted so far
func (m *MockBlobStore) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.deleted))
	copy(out, m.deleted)
	return out
}
