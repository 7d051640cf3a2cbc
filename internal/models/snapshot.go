package models

// SnapshotVersion is the current on-disk schema version.
const SnapshotVersion = 2

// FileRecord is the persisted form of a FileItem. Dates are ISO strings and
// the resolved fileUrl is deliberately absent: it is re-derived from
// StoragePath on every load.
type FileRecord struct {
	ID          string   `json:"id" msgpack:"id"`
	Name        string   `json:"name" msgpack:"name"`
	Size        string   `json:"size" msgpack:"size"`
	Date        string   `json:"date" msgpack:"date"`
	UploadedAt  string   `json:"uploadedAt" msgpack:"uploadedAt"`
	Type        string   `json:"type" msgpack:"type"`
	Tags        []string `json:"tags" msgpack:"tags"`
	IsSigned    bool     `json:"isSigned,omitempty" msgpack:"isSigned"`
	IsStarred   bool     `json:"isStarred,omitempty" msgpack:"isStarred"`
	IsRead      bool     `json:"isRead" msgpack:"isRead"`
	Color       string   `json:"color" msgpack:"color"`
	StoragePath string   `json:"storagePath" msgpack:"storagePath"`
}

// Snapshot is the complete serialized application state exchanged with the
// storage service in one unit. AvailableTags is the pre-v2 category list kept
// for reading legacy documents.
type Snapshot struct {
	Version       int          `json:"version" msgpack:"version"`
	UpdatedAt     string       `json:"updatedAt" msgpack:"updatedAt"`
	Language      string       `json:"language,omitempty" msgpack:"language"`
	AvailableTags []string     `json:"availableTags,omitempty" msgpack:"availableTags"`
	Categories    []Category   `json:"categories,omitempty" msgpack:"categories"`
	Files         []FileRecord `json:"files" msgpack:"files"`
}

// EmptySnapshot is the document lazily created by the storage service when no
// state has ever been saved.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Version:       1,
		UpdatedAt:     "",
		AvailableTags: []string{},
		Files:         []FileRecord{},
	}
}

// UploadResult is the storage service's answer to a PDF upload.
type UploadResult struct {
	StoragePath string `json:"storagePath"`
	FileURL     string `json:"fileUrl"`
}
