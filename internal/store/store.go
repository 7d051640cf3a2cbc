// Package store persists the application state document and PDF binaries on
// the local filesystem.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pdf-archive/backend/internal/models"
)

// ErrNotFound is returned when a storage path does not resolve to a file.
var ErrNotFound = errors.New("file not found")

// StateFileName is the state document's on-disk name under the data
// directory.
const StateFileName = "db.json"

var folderSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DocumentStore holds one JSON state document plus PDF binaries under a data
// directory. There is no per-user namespacing: a single shared document.
type DocumentStore struct {
	mu            sync.Mutex
	dataDir       string
	tempDir       string
	defaultFolder string
	backupCount   int
	logger        *slog.Logger
}

// NewDocumentStore creates the store and its directories.
func NewDocumentStore(dataDir, tempDir, defaultFolder string, backupCount int) (*DocumentStore, error) {
	if defaultFolder == "" {
		defaultFolder = "pdfs"
	}
	for _, dir := range []string{dataDir, tempDir, filepath.Join(dataDir, "backups")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return &DocumentStore{
		dataDir:       dataDir,
		tempDir:       tempDir,
		defaultFolder: defaultFolder,
		backupCount:   backupCount,
		logger:        slog.Default(),
	}, nil
}

// LoadState returns the persisted state document. If none exists yet, an
// empty default document is written and returned.
func (s *DocumentStore) LoadState() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statePath := filepath.Join(s.dataDir, StateFileName)
	data, err := os.ReadFile(statePath)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading state document: %w", err)
	}

	def, err := json.MarshalIndent(models.EmptySnapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding default state: %w", err)
	}
	if err := os.WriteFile(statePath, def, 0644); err != nil {
		return nil, fmt.Errorf("writing default state: %w", err)
	}
	return def, nil
}

// SaveState fully replaces the persisted document. The body must be valid
// JSON; no further schema validation happens here. The previous document is
// kept as a msgpack backup before being overwritten.
func (s *DocumentStore) SaveState(raw []byte) error {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("invalid state document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statePath := filepath.Join(s.dataDir, StateFileName)
	if prev, err := os.ReadFile(statePath); err == nil {
		// Backup failure must not block the save itself.
		if err := s.backupLocked(prev); err != nil {
			s.logger.Warn("state backup failed", "error", err)
		}
	}

	if err := os.WriteFile(statePath, raw, 0644); err != nil {
		return fmt.Errorf("writing state document: %w", err)
	}
	return nil
}

// backupLocked writes the previous document as a compact msgpack file and
// prunes old backups beyond the configured count. Caller holds s.mu.
func (s *DocumentStore) backupLocked(prev []byte) error {
	var snap models.Snapshot
	if err := json.Unmarshal(prev, &snap); err != nil {
		return fmt.Errorf("decoding previous state: %w", err)
	}
	packed, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	backupDir := filepath.Join(s.dataDir, "backups")
	name := fmt.Sprintf("state-%d.bin", time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(backupDir, name), packed, 0644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	names, err := s.listBackupsLocked()
	if err != nil {
		return err
	}
	if s.backupCount > 0 && len(names) > s.backupCount {
		for _, old := range names[:len(names)-s.backupCount] {
			os.Remove(filepath.Join(backupDir, old))
		}
	}
	return nil
}

// ListBackups returns backup file names, oldest first.
func (s *DocumentStore) ListBackups() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBackupsLocked()
}

func (s *DocumentStore) listBackupsLocked() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, "backups"))
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "state-") && strings.HasSuffix(e.Name(), ".bin") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RestoreBackup decodes a msgpack backup back into the current JSON state
// document and returns the restored document.
func (s *DocumentStore) RestoreBackup(name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	packed, err := os.ReadFile(filepath.Join(s.dataDir, "backups", name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var snap models.Snapshot
	if err := msgpack.Unmarshal(packed, &snap); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}
	raw, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding restored state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, StateFileName), raw, 0644); err != nil {
		return nil, fmt.Errorf("writing restored state: %w", err)
	}
	return raw, nil
}

// SanitizeFolder strips everything outside [a-zA-Z0-9_-] from a caller
// supplied folder name, falling back to the default folder when nothing
// survives.
func (s *DocumentStore) SanitizeFolder(folder string) string {
	safe := folderSanitizer.ReplaceAllString(folder, "")
	if safe == "" {
		return s.defaultFolder
	}
	return safe
}

// SavePDF stores an uploaded binary as {id}.pdf under the sanitized folder.
// The binary is written to the temp directory first and atomically renamed
// into place once fully received; any previous file at the exact path is
// silently overwritten.
func (s *DocumentStore) SavePDF(id, folder string, r io.Reader) (*models.UploadResult, error) {
	safeFolder := s.SanitizeFolder(folder)
	targetDir := filepath.Join(s.dataDir, safeFolder)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}

	tmp, err := os.CreateTemp(s.tempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing upload: %w", err)
	}

	fileName := id + ".pdf"
	if err := os.Rename(tmpPath, filepath.Join(targetDir, fileName)); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("moving upload into place: %w", err)
	}

	storagePath := "data/" + safeFolder + "/" + fileName
	return &models.UploadResult{
		StoragePath: storagePath,
		FileURL:     "/" + storagePath,
	}, nil
}

// DeletePDF removes the binary at a server-relative storage path.
func (s *DocumentStore) DeletePDF(storagePath string) error {
	rel := strings.TrimPrefix(storagePath, "data/")
	rel = filepath.FromSlash(rel)

	full := filepath.Join(s.dataDir, rel)
	// Reject paths that escape the data root.
	if resolved, err := filepath.Abs(full); err != nil || !strings.HasPrefix(resolved, filepath.Clean(s.dataDir)+string(os.PathSeparator)) {
		return ErrNotFound
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// DataDir returns the directory served publicly under /data.
func (s *DocumentStore) DataDir() string {
	return s.dataDir
}
