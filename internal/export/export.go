// Package export assembles zip archives of stored documents for bulk
// download.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/pdf-archive/backend/internal/models"
)

// ErrNothingExported means no file could be fetched, so there is no archive
// to hand out.
var ErrNothingExported = errors.New("export: no files could be fetched")

// Fetcher retrieves a stored document's bytes by its file URL.
type Fetcher interface {
	FetchBinary(ctx context.Context, fileURL string) ([]byte, error)
}

// Result reports the outcome of an archive build.
type Result struct {
	Archive   []byte
	Succeeded int
	Failed    int
}

// BuildArchive fetches every file and writes it into an in-memory zip. A
// file that cannot be fetched is skipped and counted; the archive still
// contains the rest. Duplicate display names get a " (n)" suffix before the
// extension. Returns ErrNothingExported when every fetch failed or the
// input was empty.
func BuildArchive(ctx context.Context, fetcher Fetcher, files []models.FileItem, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]int)
	result := &Result{}

	for _, f := range files {
		data, err := fetcher.FetchBinary(ctx, f.FileURL)
		if err != nil {
			logger.Warn("skipping file in export", "id", f.ID, "name", f.Name, "error", err)
			result.Failed++
			continue
		}

		name := entryName(f.Name)
		if n := seen[name]; n > 0 {
			name = dedupe(name, n)
		}
		seen[entryName(f.Name)]++

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %q: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write zip entry %q: %w", name, err)
		}
		result.Succeeded++
	}

	if result.Succeeded == 0 {
		zw.Close()
		return nil, ErrNothingExported
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}

	result.Archive = buf.Bytes()
	return result, nil
}

// entryName normalizes a display name into a zip entry name, ensuring a
// .pdf extension.
func entryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "document"
	}
	if !strings.EqualFold(path.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// dedupe inserts an " (n)" suffix before the extension.
func dedupe(name string, n int) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}
