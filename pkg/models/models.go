package models

// BreedNode represents one entry of the two-level breed tree
type BreedNode struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	HasCaret bool        `json:"hasCaret"`
	Children []BreedNode `json:"children,omitempty"`
	Expanded bool        `json:"expanded"`
}

// IsParent reports whether the node has sub-breeds
func (n BreedNode) IsParent() bool {
	return len(n.Children) > 0
}

// Photo represents an image whose pixel dimensions are known
type Photo struct {
	Src    string `json:"src"`
	Breed  string `json:"breed"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	Label  string `json:"label"`
	Index  int    `json:"-"`
}

// Settings holds the view settings of a session
type Settings struct {
	RowHeight int  `json:"rowHeight"`
	Shuffle   bool `json:"shuffle"`
	DarkTheme bool `json:"darkTheme"`
}

// TreeRow is a flattened breed node ready for rendering
type TreeRow struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Depth         int    `json:"depth"`
	HasCaret      bool   `json:"hasCaret"`
	Expanded      bool   `json:"expanded"`
	Checked       bool   `json:"checked"`
	Indeterminate bool   `json:"indeterminate"`
}

// Page represents a snapshot of a session, used by the index page and the state feed
type Page struct {
	SessionID     string    `json:"sessionId"`
	Search        string    `json:"search"`
	Tree          []TreeRow `json:"tree"`
	TreeLoading   bool      `json:"treeLoading"`
	Selected      []string  `json:"selected"`
	Settings      Settings  `json:"settings"`
	Photos        []Photo   `json:"photos"`
	Loading       bool      `json:"loading"`
	Empty         bool      `json:"empty"`
	MinRowHeight  int       `json:"minRowHeight"`
	MaxRowHeight  int       `json:"maxRowHeight"`
	RowHeightStep int       `json:"rowHeightStep"`
}

// Viewer represents the full-screen viewer page data
type Viewer struct {
	Index     int
	Total     int
	Photo     Photo
	Prev      int
	Next      int
	Slideshow bool
	Interval  int
	ShareURL  string
	DarkTheme bool
	Strip     []StripItem
}

// StripItem is one entry of the viewer thumbnail strip
type StripItem struct {
	Index   int
	Current bool
}

// Manifest is the exported description of a resolved gallery
type Manifest struct {
	Breeds []string `json:"breeds"`
	Photos []Photo  `json:"photos"`
}
