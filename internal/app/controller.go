// Package app owns the in-memory application state and mediates every
// mutation. Consumers receive copies and dispatch intents through command
// methods; there is no ambient shared state.
package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdf-archive/backend/internal/models"
)

// Screen identifies the active UI screen.
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenViewer    Screen = "viewer"
	ScreenUpload    Screen = "upload"
	ScreenExport    Screen = "export"
	ScreenFolders   Screen = "folders"
	ScreenStarred   Screen = "starred"
	ScreenSettings  Screen = "settings"
)

// DefaultLanguage is used until a stored language is loaded.
const DefaultLanguage = "DE"

// defaultFileColor is the cosmetic style token assigned to new files.
const defaultFileColor = "text-primary bg-primary/20"

// Storage is the slice of the storage client the controller depends on.
type Storage interface {
	UploadFile(ctx context.Context, id string, r io.Reader, filename, folder string) (*models.UploadResult, error)
	DeleteFile(ctx context.Context, storagePath string)
	SaveState(ctx context.Context, snap *models.Snapshot) error
	LoadState(ctx context.Context) (*models.Snapshot, error)
	ResolveFileURL(fileURL string) string
}

// ArchiveInput is one file selected for archiving.
type ArchiveInput struct {
	Name    string
	Size    string // precomputed human-readable size
	Content io.Reader
}

// FileUpdate carries a partial FileItem mutation; nil fields stay unchanged.
type FileUpdate struct {
	Name     *string
	Date     *time.Time
	Tags     []string
	IsSigned *bool
}

// Controller is the single source of truth for files, categories, language
// and the current screen. Every accepted mutation persists the full snapshot
// once the initial load has completed.
type Controller struct {
	mu         sync.Mutex
	storage    Storage
	logger     *slog.Logger
	files      []models.FileItem
	categories []models.Category
	language   string
	screen     Screen
	selectedID string

	ready     bool  // persistence is suppressed until the first successful load
	loadToken int64 // discards stale in-flight load results
	saveSeq   int64

	onChange func()
	onNotice func(msg string)
}

// NewController creates a controller with the default category registry.
func NewController(storage Storage, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		storage:    storage,
		logger:     logger,
		categories: models.DefaultCategories(),
		language:   DefaultLanguage,
		screen:     ScreenDashboard,
	}
}

// SetOnChange registers a change-notification callback fired after every
// accepted mutation.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetOnNotice registers a callback for non-fatal, user-visible notices.
func (c *Controller) SetOnNotice(fn func(msg string)) {
	c.mu.Lock()
	c.onNotice = fn
	c.mu.Unlock()
}

// Load hydrates the controller from the storage service. A nil snapshot (no
// prior state) keeps the defaults and enables persistence. A failed load also
// keeps the defaults but leaves persistence suppressed until a later Load
// succeeds. If a newer Load was issued while this one was in flight, the
// stale result is discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadToken++
	token := c.loadToken
	c.mu.Unlock()

	snap, err := c.storage.LoadState(ctx)

	c.mu.Lock()
	if token != c.loadToken {
		c.mu.Unlock()
		c.logger.Info("discarding stale load result")
		return nil
	}
	defer c.mu.Unlock()

	if err != nil {
		// Leave ready false: persisting now would overwrite whatever the
		// server still holds with the in-memory defaults.
		c.logger.Warn("state load failed, using defaults", "error", err)
		return err
	}

	if snap != nil {
		c.files = hydrateFiles(snap.Files, c.storage)
		switch {
		case len(snap.Categories) > 0:
			c.categories = append([]models.Category(nil), snap.Categories...)
		case len(snap.AvailableTags) > 0:
			c.categories = upgradeTags(snap.AvailableTags)
		}
		if snap.Language != "" {
			c.language = snap.Language
		}
	}
	c.ready = true
	return nil
}

// hydrateFiles converts persisted records back to FileItems, re-deriving
// every fileUrl from its storage path.
func hydrateFiles(records []models.FileRecord, storage Storage) []models.FileItem {
	files := make([]models.FileItem, 0, len(records))
	for _, r := range records {
		date, _ := time.Parse(time.RFC3339, r.Date)
		uploadedAt, _ := time.Parse(time.RFC3339, r.UploadedAt)
		files = append(files, models.FileItem{
			ID:          r.ID,
			Name:        r.Name,
			Size:        r.Size,
			Date:        date,
			UploadedAt:  uploadedAt,
			Type:        r.Type,
			Tags:        append([]string(nil), r.Tags...),
			IsSigned:    r.IsSigned,
			IsStarred:   r.IsStarred,
			IsRead:      r.IsRead,
			Color:       r.Color,
			StoragePath: r.StoragePath,
			FileURL:     storage.ResolveFileURL("/" + r.StoragePath),
		})
	}
	return files
}

// upgradeTags converts a pre-v2 plain tag list into colored categories.
func upgradeTags(tags []string) []models.Category {
	categories := make([]models.Category, 0, len(tags))
	for i, tag := range tags {
		categories = append(categories, models.Category{
			Name:  tag,
			Color: models.CategoryColorPalette[i%len(models.CategoryColorPalette)],
		})
	}
	return categories
}

// Files returns a copy of the file collection.
func (c *Controller) Files() []models.FileItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileItem(nil), c.files...)
}

// Categories returns a copy of the category registry.
func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Category(nil), c.categories...)
}

// Language returns the active language code.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// SelectedFile returns the file open in the viewer, if any.
func (c *Controller) SelectedFile() (models.FileItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.files {
		if f.ID == c.selectedID {
			return f, true
		}
	}
	return models.FileItem{}, false
}

// Navigate switches the active screen.
func (c *Controller) Navigate(screen Screen) {
	c.mu.Lock()
	c.screen = screen
	c.mu.Unlock()
	c.notifyChange()
}

// OpenViewer selects a file and switches to the viewer screen.
func (c *Controller) OpenViewer(id string) {
	c.mu.Lock()
	c.selectedID = id
	c.screen = ScreenViewer
	c.mu.Unlock()
	c.notifyChange()
}

// Archive uploads each input and prepends a fully-populated FileItem for
// every successful upload, newest-first. One failed upload skips that file
// only; already-uploaded siblings stay archived. Ends on the dashboard.
func (c *Controller) Archive(ctx context.Context, inputs []ArchiveInput, archiveDate time.Time, tags []string) []models.FileItem {
	now := time.Now()
	var archived []models.FileItem
	for _, in := range inputs {
		id := uuid.New().String()
		result, err := c.storage.UploadFile(ctx, id, in.Content, in.Name, "pdfs")
		if err != nil {
			c.logger.Warn("upload failed", "name", in.Name, "error", err)
			c.notice("Upload failed: " + in.Name)
			continue
		}
		archived = append(archived, models.FileItem{
			ID:          id,
			Name:        in.Name,
			Size:        in.Size,
			Date:        archiveDate,
			UploadedAt:  now,
			Type:        "pdf",
			Tags:        append([]string(nil), tags...),
			Color:       defaultFileColor,
			IsSigned:    false,
			IsStarred:   false,
			IsRead:      false,
			StoragePath: result.StoragePath,
			FileURL:     result.FileURL,
		})
	}

	c.mu.Lock()
	c.files = append(append([]models.FileItem(nil), archived...), c.files...)
	c.screen = ScreenDashboard
	c.mu.Unlock()

	c.persist(ctx)
	c.notifyChange()
	return archived
}

// Delete removes a file from the collection and issues a best-effort binary
// deletion. Deleting the file currently open in the viewer navigates back to
// the dashboard. Unknown ids are a silent no-op.
func (c *Controller) Delete(ctx context.Context, id string) {
	c.mu.Lock()
	var storagePath string
	removed := false
	kept := c.files[:0]
	for _, f := range c.files {
		if f.ID == id {
			storagePath = f.StoragePath
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	c.files = kept
	if removed && c.selectedID == id {
		c.selectedID = ""
		c.screen = ScreenDashboard
	}
	c.mu.Unlock()

	if !removed {
		return
	}
	if storagePath != "" {
		c.storage.DeleteFile(ctx, storagePath)
	}

	c.persist(ctx)
	c.notifyChange()
}

// ToggleStar flips a file's starred flag. Unknown ids are a silent no-op.
func (c *Controller) ToggleStar(ctx context.Context, id string) {
	c.toggleFlag(ctx, id, func(f *models.FileItem) { f.IsStarred = !f.IsStarred })
}

// ToggleRead flips a file's read flag. Unknown ids are a silent no-op.
func (c *Controller) ToggleRead(ctx context.Context, id string) {
	c.toggleFlag(ctx, id, func(f *models.FileItem) { f.IsRead = !f.IsRead })
}

func (c *Controller) toggleFlag(ctx context.Context, id string, flip func(*models.FileItem)) {
	c.mu.Lock()
	found := false
	for i := range c.files {
		if c.files[i].ID == id {
			flip(&c.files[i])
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return
	}
	c.persist(ctx)
	c.notifyChange()
}

// UpdateFile merges the provided fields into an existing FileItem; other
// fields are unchanged. Unknown ids are a silent no-op.
func (c *Controller) UpdateFile(ctx context.Context, id string, update FileUpdate) {
	c.mu.Lock()
	found := false
	for i := range c.files {
		if c.files[i].ID != id {
			continue
		}
		if update.Name != nil {
			c.files[i].Name = *update.Name
		}
		if update.Date != nil {
			c.files[i].Date = *update.Date
		}
		if update.Tags != nil {
			c.files[i].Tags = append([]string(nil), update.Tags...)
		}
		if update.IsSigned != nil {
			c.files[i].IsSigned = *update.IsSigned
		}
		found = true
		break
	}
	c.mu.Unlock()

	if !found {
		return
	}
	c.persist(ctx)
	c.notifyChange()
}

// AddCategory registers a new category. Empty or duplicate names are a
// silent no-op.
func (c *Controller) AddCategory(ctx context.Context, category models.Category) {
	c.mu.Lock()
	if category.Name == "" || c.hasCategoryLocked(category.Name) {
		c.mu.Unlock()
		return
	}
	c.categories = append(c.categories, category)
	c.mu.Unlock()

	c.persist(ctx)
	c.notifyChange()
}

// EditCategory renames or recolors a category. An empty new name, or a
// rename that collides with a different existing category, is a silent
// no-op. An accepted rename cascades through every file's tag list.
func (c *Controller) EditCategory(ctx context.Context, oldName string, updated models.Category) {
	c.mu.Lock()
	if updated.Name == "" {
		c.mu.Unlock()
		return
	}
	if oldName != updated.Name && c.hasCategoryLocked(updated.Name) {
		c.mu.Unlock()
		return
	}

	found := false
	for i := range c.categories {
		if c.categories[i].Name == oldName {
			c.categories[i] = updated
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return
	}

	if oldName != updated.Name {
		for i := range c.files {
			for j, tag := range c.files[i].Tags {
				if tag == oldName {
					c.files[i].Tags[j] = updated.Name
				}
			}
		}
	}
	c.mu.Unlock()

	c.persist(ctx)
	c.notifyChange()
}

// DeleteCategory removes a category from the registry only. Existing files
// keep the tag for historical display.
func (c *Controller) DeleteCategory(ctx context.Context, name string) {
	c.mu.Lock()
	kept := c.categories[:0]
	removed := false
	for _, cat := range c.categories {
		if cat.Name == name {
			removed = true
			continue
		}
		kept = append(kept, cat)
	}
	c.categories = kept
	c.mu.Unlock()

	if !removed {
		return
	}
	c.persist(ctx)
	c.notifyChange()
}

// SetLanguage switches the active language code.
func (c *Controller) SetLanguage(ctx context.Context, lang string) {
	c.mu.Lock()
	c.language = lang
	c.mu.Unlock()
	c.persist(ctx)
	c.notifyChange()
}

func (c *Controller) hasCategoryLocked(name string) bool {
	for _, cat := range c.categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// persist saves the full snapshot. Suppressed until the first successful
// load so pre-load defaults never clobber stored state. Save failures
// surface as a notice, never as a crash.
func (c *Controller) persist(ctx context.Context) {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return
	}
	c.saveSeq++
	seq := c.saveSeq
	snap := c.snapshotLocked()
	c.mu.Unlock()

	err := c.storage.SaveState(ctx, snap)

	c.mu.Lock()
	stale := seq != c.saveSeq
	c.mu.Unlock()
	if stale {
		// A newer save has been issued; this outcome no longer matters.
		return
	}
	if err != nil {
		c.logger.Warn("state save failed", "error", err)
		c.notice("Saving failed")
	}
}

// snapshotLocked builds the persisted form of the current state. fileUrl is
// never persisted; storagePath is the durable reference.
func (c *Controller) snapshotLocked() *models.Snapshot {
	records := make([]models.FileRecord, 0, len(c.files))
	for _, f := range c.files {
		storagePath := f.StoragePath
		if storagePath == "" {
			storagePath = "data/pdfs/" + f.ID + ".pdf"
		}
		records = append(records, models.FileRecord{
			ID:          f.ID,
			Name:        f.Name,
			Size:        f.Size,
			Date:        f.Date.Format(time.RFC3339),
			UploadedAt:  f.UploadedAt.Format(time.RFC3339),
			Type:        f.Type,
			Tags:        append([]string(nil), f.Tags...),
			IsSigned:    f.IsSigned,
			IsStarred:   f.IsStarred,
			IsRead:      f.IsRead,
			Color:       f.Color,
			StoragePath: storagePath,
		})
	}
	return &models.Snapshot{
		Version:    models.SnapshotVersion,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		Language:   c.language,
		Categories: append([]models.Category(nil), c.categories...),
		Files:      records,
	}
}

func (c *Controller) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Controller) notice(msg string) {
	c.mu.Lock()
	fn := c.onNotice
	c.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}
