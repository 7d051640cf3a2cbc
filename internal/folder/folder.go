// Package folder derives virtual folders from the category registry. A
// folder is a live view over the file collection, not a storage location.
package folder

import (
	"sort"

	"github.com/pdf-archive/backend/internal/models"
)

// Unsorted collects files without any tag.
const Unsorted = "Unsorted"

// Folder is one derived folder with its matching file count.
type Folder struct {
	Name  string
	Color string
	Count int
}

// Derive builds the folder list: one folder per registered category plus
// Unsorted for untagged files. A file with several tags counts in each
// matching folder. Folders with files come first, each block ordered
// alphabetically.
func Derive(files []models.FileItem, categories []models.Category) []Folder {
	folders := make([]Folder, 0, len(categories)+1)
	for _, cat := range categories {
		count := 0
		for _, f := range files {
			if f.HasTag(cat.Name) {
				count++
			}
		}
		folders = append(folders, Folder{Name: cat.Name, Color: cat.Color, Count: count})
	}

	unsorted := 0
	for _, f := range files {
		if len(f.Tags) == 0 {
			unsorted++
		}
	}
	folders = append(folders, Folder{Name: Unsorted, Count: unsorted})

	sort.SliceStable(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if (a.Count > 0) != (b.Count > 0) {
			return a.Count > 0
		}
		return a.Name < b.Name
	})
	return folders
}

// Files returns the files belonging to a folder. The Unsorted folder
// matches untagged files; any other name matches files carrying that tag.
func Files(files []models.FileItem, name string) []models.FileItem {
	var out []models.FileItem
	for _, f := range files {
		if name == Unsorted {
			if len(f.Tags) == 0 {
				out = append(out, f)
			}
			continue
		}
		if f.HasTag(name) {
			out = append(out, f)
		}
	}
	return out
}
