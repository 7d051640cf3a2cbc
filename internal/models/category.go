package models

// Category is a named, colored tag definition available for assignment to files.
// The name is the unique key; file tags reference categories by name only, so a
// deleted category may still appear in file tag lists.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"` // hex
}

// CategoryColorPalette cycles through these when upgrading legacy tag lists
// that carry no color information.
var CategoryColorPalette = []string{
	"#38bdf8", "#f97316", "#a855f7", "#22c55e", "#f43f5e", "#eab308", "#14b8a6",
}

// DefaultCategories is the registry seeded on first run.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Rechnung", Color: "#38bdf8"},
		{Name: "Vertrag", Color: "#f97316"},
		{Name: "Steuer", Color: "#a855f7"},
		{Name: "Wichtig", Color: "#f43f5e"},
		{Name: "Sonstiges", Color: "#eab308"},
		{Name: "Privat", Color: "#14b8a6"},
		{Name: "Arbeit", Color: "#22c55e"},
	}
}
