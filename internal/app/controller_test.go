package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdf-archive/backend/internal/models"
	"github.com/pdf-archive/backend/internal/testutil"
)

func newLoadedController(t *testing.T) (*Controller, *testutil.MockClient) {
	t.Helper()
	mock := testutil.NewMockClient()
	c := NewController(mock, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c, mock
}

func TestLoad(t *testing.T) {
	t.Run("no stored state keeps defaults", func(t *testing.T) {
		c, _ := newLoadedController(t)

		if len(c.Files()) != 0 {
			t.Errorf("Expected no files, got %d", len(c.Files()))
		}
		cats := c.Categories()
		if len(cats) != len(models.DefaultCategories()) {
			t.Errorf("Expected default categories, got %d", len(cats))
		}
		if c.Language() != DefaultLanguage {
			t.Errorf("Expected default language, got %q", c.Language())
		}
	})

	t.Run("hydrates stored snapshot and re-derives file URLs", func(t *testing.T) {
		mock := testutil.NewMockClient()
		mock.SeedSnapshot(&models.Snapshot{
			Version:  2,
			Language: "EN",
			Categories: []models.Category{
				{Name: "Taxes", Color: "bg-red-500"},
			},
			Files: []models.FileRecord{
				{
					ID:          "f1",
					Name:        "return.pdf",
					Date:        "2026-03-01T00:00:00Z",
					UploadedAt:  "2026-03-01T10:00:00Z",
					Type:        "pdf",
					Tags:        []string{"Taxes"},
					StoragePath: "data/pdfs/f1.pdf",
				},
			},
		})
		c := NewController(mock, nil)
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		files := c.Files()
		if len(files) != 1 {
			t.Fatalf("Expected 1 file, got %d", len(files))
		}
		if files[0].FileURL != "/data/pdfs/f1.pdf" {
			t.Errorf("Expected re-derived file URL, got %q", files[0].FileURL)
		}
		if c.Language() != "EN" {
			t.Errorf("Expected language EN, got %q", c.Language())
		}
		cats := c.Categories()
		if len(cats) != 1 || cats[0].Name != "Taxes" {
			t.Errorf("Expected stored categories, got %v", cats)
		}
	})

	t.Run("upgrades legacy tag list to colored categories", func(t *testing.T) {
		mock := testutil.NewMockClient()
		mock.SeedSnapshot(&models.Snapshot{
			Version:       1,
			AvailableTags: []string{"Old", "Older", "Oldest"},
		})
		c := NewController(mock, nil)
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		cats := c.Categories()
		if len(cats) != 3 {
			t.Fatalf("Expected 3 upgraded categories, got %d", len(cats))
		}
		for i, cat := range cats {
			if cat.Color != models.CategoryColorPalette[i%len(models.CategoryColorPalette)] {
				t.Errorf("Category %d got color %q", i, cat.Color)
			}
		}
	})
}

func TestPersistenceGating(t *testing.T) {
	t.Run("mutations before load are not persisted", func(t *testing.T) {
		mock := testutil.NewMockClient()
		c := NewController(mock, nil)

		c.SetLanguage(context.Background(), "EN")
		if mock.Saves != 0 {
			t.Errorf("Expected no saves before load, got %d", mock.Saves)
		}
	})

	t.Run("mutations after a failed load are not persisted", func(t *testing.T) {
		mock := testutil.NewMockClient()
		mock.LoadErr = errors.New("connection refused")
		c := NewController(mock, nil)
		if err := c.Load(context.Background()); err == nil {
			t.Fatal("Expected Load to report the transport error")
		}

		c.SetLanguage(context.Background(), "EN")
		if mock.Saves != 0 {
			t.Errorf("Failed load must not arm persistence, got %d saves", mock.Saves)
		}

		// A later successful load re-enables persistence
		mock.LoadErr = nil
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		c.SetLanguage(context.Background(), "EN")
		if mock.Saves != 1 {
			t.Errorf("Expected 1 save after recovery, got %d", mock.Saves)
		}
	})

	t.Run("mutations after load are persisted", func(t *testing.T) {
		c, mock := newLoadedController(t)

		c.SetLanguage(context.Background(), "EN")
		if mock.Saves != 1 {
			t.Fatalf("Expected 1 save, got %d", mock.Saves)
		}
		snap := mock.LastSnapshot()
		if snap.Language != "EN" {
			t.Errorf("Expected persisted language EN, got %q", snap.Language)
		}
		if snap.Version != models.SnapshotVersion {
			t.Errorf("Expected version %d, got %d", models.SnapshotVersion, snap.Version)
		}
	})
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("prepends archived files newest-first", func(t *testing.T) {
		c, mock := newLoadedController(t)

		c.Archive(ctx, []ArchiveInput{
			{Name: "first.pdf", Size: "1.0 MB", Content: strings.NewReader("a")},
		}, date, []string{"Taxes"})
		c.Archive(ctx, []ArchiveInput{
			{Name: "second.pdf", Size: "2.0 MB", Content: strings.NewReader("b")},
		}, date, nil)

		files := c.Files()
		if len(files) != 2 {
			t.Fatalf("Expected 2 files, got %d", len(files))
		}
		if files[0].Name != "second.pdf" || files[1].Name != "first.pdf" {
			t.Errorf("Expected newest first, got %q, %q", files[0].Name, files[1].Name)
		}
		if files[1].Tags[0] != "Taxes" {
			t.Errorf("Expected archive tags applied, got %v", files[1].Tags)
		}
		if files[0].StoragePath == "" || files[0].FileURL == "" {
			t.Error("Expected storage path and file URL populated")
		}
		if len(mock.Uploaded) != 2 {
			t.Errorf("Expected 2 uploads, got %d", len(mock.Uploaded))
		}
		if c.Screen() != ScreenDashboard {
			t.Errorf("Expected dashboard after archive, got %q", c.Screen())
		}
	})

	t.Run("one failed upload skips that file only", func(t *testing.T) {
		c, mock := newLoadedController(t)
		mock.FailUpload["bad.pdf"] = true

		var notices []string
		c.SetOnNotice(func(msg string) { notices = append(notices, msg) })

		archived := c.Archive(ctx, []ArchiveInput{
			{Name: "good.pdf", Size: "1.0 MB", Content: strings.NewReader("a")},
			{Name: "bad.pdf", Size: "1.0 MB", Content: strings.NewReader("b")},
			{Name: "also-good.pdf", Size: "1.0 MB", Content: strings.NewReader("c")},
		}, date, nil)

		if len(archived) != 2 {
			t.Fatalf("Expected 2 archived, got %d", len(archived))
		}
		files := c.Files()
		for _, f := range files {
			if f.Name == "bad.pdf" {
				t.Error("Failed upload must not appear in the collection")
			}
		}
		if len(notices) != 1 {
			t.Errorf("Expected 1 notice, got %v", notices)
		}
	})

	t.Run("assigns unique ids", func(t *testing.T) {
		c, _ := newLoadedController(t)

		archived := c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
			{Name: "b.pdf", Size: "1 KB", Content: strings.NewReader("b")},
		}, date, nil)

		if archived[0].ID == archived[1].ID {
			t.Error("Expected distinct ids")
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("removes file and issues binary delete", func(t *testing.T) {
		c, mock := newLoadedController(t)
		archived := c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
		}, date, nil)

		c.Delete(ctx, archived[0].ID)

		if len(c.Files()) != 0 {
			t.Error("Expected file removed")
		}
		if len(mock.Deleted) != 1 || mock.Deleted[0] != archived[0].StoragePath {
			t.Errorf("Expected binary delete for %q, got %v", archived[0].StoragePath, mock.Deleted)
		}
	})

	t.Run("deleting the viewed file returns to dashboard", func(t *testing.T) {
		c, _ := newLoadedController(t)
		archived := c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
		}, date, nil)

		c.OpenViewer(archived[0].ID)
		if c.Screen() != ScreenViewer {
			t.Fatalf("Expected viewer screen, got %q", c.Screen())
		}

		c.Delete(ctx, archived[0].ID)
		if c.Screen() != ScreenDashboard {
			t.Errorf("Expected dashboard after deleting viewed file, got %q", c.Screen())
		}
		if _, ok := c.SelectedFile(); ok {
			t.Error("Expected no selected file")
		}
	})

	t.Run("unknown id leaves collection untouched", func(t *testing.T) {
		c, mock := newLoadedController(t)
		c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
		}, date, nil)
		savesBefore := mock.Saves

		changes := 0
		c.SetOnChange(func() { changes++ })

		c.Delete(ctx, "no-such-id")
		if len(c.Files()) != 1 {
			t.Error("Expected collection unchanged")
		}
		if len(mock.Deleted) != 0 {
			t.Errorf("Expected no binary delete, got %v", mock.Deleted)
		}
		if mock.Saves != savesBefore {
			t.Errorf("Expected no save for unknown id, got %d extra", mock.Saves-savesBefore)
		}
		if changes != 0 {
			t.Errorf("Expected no change notification, got %d", changes)
		}
	})
}

func TestToggles(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	c, mock := newLoadedController(t)
	archived := c.Archive(ctx, []ArchiveInput{
		{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
	}, date, nil)
	id := archived[0].ID
	savesBefore := mock.Saves

	c.ToggleStar(ctx, id)
	if f := c.Files()[0]; !f.IsStarred {
		t.Error("Expected starred after toggle")
	}
	c.ToggleStar(ctx, id)
	if f := c.Files()[0]; f.IsStarred {
		t.Error("Expected unstarred after second toggle")
	}

	c.ToggleRead(ctx, id)
	if f := c.Files()[0]; !f.IsRead {
		t.Error("Expected read after toggle")
	}

	if mock.Saves != savesBefore+3 {
		t.Errorf("Expected 3 saves from toggles, got %d", mock.Saves-savesBefore)
	}

	// Unknown ids are a silent no-op and must not persist
	c.ToggleStar(ctx, "no-such-id")
	if mock.Saves != savesBefore+3 {
		t.Error("Expected no save for unknown id")
	}
}

func TestUpdateFile(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	c, _ := newLoadedController(t)
	archived := c.Archive(ctx, []ArchiveInput{
		{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
	}, date, []string{"Taxes"})
	id := archived[0].ID

	newName := "renamed.pdf"
	signed := true
	c.UpdateFile(ctx, id, FileUpdate{Name: &newName, IsSigned: &signed})

	f := c.Files()[0]
	if f.Name != "renamed.pdf" {
		t.Errorf("Expected renamed file, got %q", f.Name)
	}
	if !f.IsSigned {
		t.Error("Expected signed flag set")
	}
	// Untouched fields survive the partial update
	if len(f.Tags) != 1 || f.Tags[0] != "Taxes" {
		t.Errorf("Expected tags unchanged, got %v", f.Tags)
	}
	if !f.Date.Equal(date) {
		t.Errorf("Expected date unchanged, got %v", f.Date)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("add rejects duplicates and empty names", func(t *testing.T) {
		c, _ := newLoadedController(t)
		before := len(c.Categories())

		c.AddCategory(ctx, models.Category{Name: "Insurance", Color: "bg-cyan-500"})
		if len(c.Categories()) != before+1 {
			t.Error("Expected category added")
		}

		c.AddCategory(ctx, models.Category{Name: "Insurance", Color: "bg-red-500"})
		c.AddCategory(ctx, models.Category{Name: ""})
		if len(c.Categories()) != before+1 {
			t.Error("Expected duplicates and empty names rejected")
		}
	})

	t.Run("rename cascades through file tags", func(t *testing.T) {
		c, _ := newLoadedController(t)
		c.AddCategory(ctx, models.Category{Name: "Bills", Color: "bg-red-500"})
		c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
		}, date, []string{"Bills", "Wichtig"})

		c.EditCategory(ctx, "Bills", models.Category{Name: "Invoices", Color: "bg-red-500"})

		f := c.Files()[0]
		if f.Tags[0] != "Invoices" || f.Tags[1] != "Wichtig" {
			t.Errorf("Expected renamed tag cascade, got %v", f.Tags)
		}
		for _, cat := range c.Categories() {
			if cat.Name == "Bills" {
				t.Error("Old category name must be gone")
			}
		}
	})

	t.Run("rename colliding with another category is a no-op", func(t *testing.T) {
		c, _ := newLoadedController(t)
		c.AddCategory(ctx, models.Category{Name: "Bills", Color: "bg-red-500"})

		c.EditCategory(ctx, "Bills", models.Category{Name: "Wichtig", Color: "bg-red-500"})

		names := map[string]int{}
		for _, cat := range c.Categories() {
			names[cat.Name]++
		}
		if names["Bills"] != 1 || names["Wichtig"] != 1 {
			t.Errorf("Expected rename rejected, got %v", names)
		}
	})

	t.Run("recolor without rename is accepted", func(t *testing.T) {
		c, _ := newLoadedController(t)

		c.EditCategory(ctx, "Wichtig", models.Category{Name: "Wichtig", Color: "bg-pink-500"})
		for _, cat := range c.Categories() {
			if cat.Name == "Wichtig" && cat.Color != "bg-pink-500" {
				t.Errorf("Expected recolor applied, got %q", cat.Color)
			}
		}
	})

	t.Run("delete keeps historical tags on files", func(t *testing.T) {
		c, _ := newLoadedController(t)
		c.Archive(ctx, []ArchiveInput{
			{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
		}, date, []string{"Wichtig"})

		c.DeleteCategory(ctx, "Wichtig")

		for _, cat := range c.Categories() {
			if cat.Name == "Wichtig" {
				t.Error("Expected category removed from registry")
			}
		}
		if f := c.Files()[0]; len(f.Tags) != 1 || f.Tags[0] != "Wichtig" {
			t.Errorf("Expected historical tag retained, got %v", f.Tags)
		}
	})
}

func TestSnapshotNeverPersistsFileURL(t *testing.T) {
	ctx := context.Background()
	c, mock := newLoadedController(t)
	c.Archive(ctx, []ArchiveInput{
		{Name: "a.pdf", Size: "1 KB", Content: strings.NewReader("a")},
	}, time.Now(), nil)

	snap := mock.LastSnapshot()
	if len(snap.Files) != 1 {
		t.Fatalf("Expected 1 persisted file, got %d", len(snap.Files))
	}
	if snap.Files[0].StoragePath == "" {
		t.Error("Expected storage path persisted")
	}
}

func TestChangeNotification(t *testing.T) {
	ctx := context.Background()
	c, _ := newLoadedController(t)

	changes := 0
	c.SetOnChange(func() { changes++ })

	c.Navigate(ScreenFolders)
	c.SetLanguage(ctx, "EN")
	if changes != 2 {
		t.Errorf("Expected 2 change notifications, got %d", changes)
	}
}
