package models

import "time"

// FileItem is one archived document's metadata record.
type FileItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        string    `json:"size"` // human-readable, computed at upload time
	Date        time.Time `json:"date"` // user-assigned archive date
	UploadedAt  time.Time `json:"uploadedAt"`
	Type        string    `json:"type"` // always "pdf"
	Tags        []string  `json:"tags"`
	IsSigned    bool      `json:"isSigned,omitempty"`
	IsStarred   bool      `json:"isStarred,omitempty"`
	IsRead      bool      `json:"isRead"`
	Color       string    `json:"color"` // cosmetic style token assigned at creation
	StoragePath string    `json:"storagePath"`

	// FileURL is resolved from StoragePath at load time and never persisted.
	FileURL string `json:"-"`
}

// HasTag reports whether the file carries the given tag.
func (f *FileItem) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
