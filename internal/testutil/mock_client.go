// mock_client.go - Mock storage client implementation for testing
package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/pdf-archive/backend/internal/models"
)

// MockClient is an in-memory stand-in for the storage client. Error fields
// force the corresponding call to fail.
type MockClient struct {
	mu sync.Mutex

	binaries map[string][]byte // storagePath -> content
	snapshot *models.Snapshot

	Uploaded []string // ids in upload order
	Deleted  []string // storage paths in delete order
	Saves    int

	UploadErr  error
	SaveErr    error
	LoadErr    error
	FetchErr   error
	FailUpload map[string]bool // filename -> force failure
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		binaries:   make(map[string][]byte),
		FailUpload: make(map[string]bool),
	}
}

func (m *MockClient) UploadFile(_ context.Context, id string, r io.Reader, filename, folder string) (*models.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if m.FailUpload[filename] {
		return nil, errors.New("upload rejected")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = "pdfs"
	}
	storagePath := "data/" + folder + "/" + id + ".pdf"
	m.binaries[storagePath] = data
	m.Uploaded = append(m.Uploaded, id)
	return &models.UploadResult{
		StoragePath: storagePath,
		FileURL:     "/" + storagePath,
	}, nil
}

func (m *MockClient) DeleteFile(_ context.Context, storagePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.binaries, storagePath)
	m.Deleted = append(m.Deleted, storagePath)
}

func (m *MockClient) SaveState(_ context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snapshot = snap
	m.Saves++
	return nil
}

func (m *MockClient) LoadState(_ context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.snapshot, nil
}

func (m *MockClient) ResolveFileURL(fileURL string) string {
	return fileURL
}

func (m *MockClient) FetchBinary(_ context.Context, fileURL string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	storagePath := strings.TrimPrefix(fileURL, "/")
	data, ok := m.binaries[storagePath]
	if !ok {
		return nil, errors.New("binary not found: " + fileURL)
	}
	return data, nil
}

// SeedSnapshot installs a snapshot to be returned by LoadState.
func (m *MockClient) SeedSnapshot(snap *models.Snapshot) {
	m.mu.Lock()
	m.snapshot = snap
	m.mu.Unlock()
}

// SeedBinary installs a stored binary at the given storage path.
func (m *MockClient) SeedBinary(storagePath string, data []byte) {
	m.mu.Lock()
	m.binaries[storagePath] = data
	m.mu.Unlock()
}

// LastSnapshot returns the most recently saved snapshot.
func (m *MockClient) LastSnapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}
