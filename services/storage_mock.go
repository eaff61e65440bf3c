package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/aditwicaksono/warung-pos-api/utils"
)

// MockImageStorage is an in-memory ImageStorage for tests
type MockImageStorage struct {
	stored map[string][]byte
	mu     sync.RWMutex
}

// NewMockImageStorage creates an empty mock image storage
func NewMockImageStorage() *MockImageStorage {
	return &MockImageStorage{
		stored: make(map[string][]byte),
	}
}

// SetAsStorageForTesting installs this mock as the active backend
func (m *MockImageStorage) SetAsStorageForTesting() {
	SetImageStorage(m)
}

// UploadImage validates and stores the file content in memory
func (m *MockImageStorage) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("product-images/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.stored[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetImageURL returns a fake presigned URL for a stored key
func (m *MockImageStorage) GetImageURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.stored[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("image not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteImage removes the key from the in-memory store
func (m *MockImageStorage) DeleteImage(key string) error {
	m.mu.Lock()
	delete(m.stored, key)
	m.mu.Unlock()
	return nil
}

// Put stores raw content under a key, bypassing upload validation
// (for seeding tests)
func (m *MockImageStorage) Put(key string, content []byte) {
	m.mu.Lock()
	m.stored[key] = content
	m.mu.Unlock()
}

// ImageExists reports whether a key is present (for test assertions)
func (m *MockImageStorage) ImageExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.stored[key]
	return exists
}

// Clear empties the mock storage
func (m *MockImageStorage) Clear() {
	m.mu.Lock()
	m.stored = make(map[string][]byte)
	m.mu.Unlock()
}
