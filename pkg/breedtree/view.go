package breedtree

import (
	"strings"

	"breed-gallery/pkg/models"
)

// Filter returns the nodes whose labels contain text, case-insensitively.
// A parent whose own label matches is kept whole. A parent that only matches
// through its children keeps just those children and is expanded. Empty text
// returns every node collapsed. The input is never modified.
func Filter(nodes []models.BreedNode, text string) []models.BreedNode {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return collapse(nodes)
	}

	matches := func(node models.BreedNode) bool {
		return strings.Contains(strings.ToLower(node.Label), query)
	}

	filtered := make([]models.BreedNode, 0, len(nodes))
	for _, node := range nodes {
		if matches(node) {
			kept := node
			kept.Children = Clone(node.Children)
			filtered = append(filtered, kept)
			continue
		}

		var children []models.BreedNode
		for _, child := range node.Children {
			if matches(child) {
				children = append(children, child)
			}
		}
		if len(children) > 0 {
			kept := node
			kept.Children = children
			kept.Expanded = true
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

func collapse(nodes []models.BreedNode) []models.BreedNode {
	out := Clone(nodes)
	for i := range out {
		out[i].Expanded = false
		for j := range out[i].Children {
			out[i].Children[j].Expanded = false
		}
	}
	return out
}

// SetExpanded returns a copy of nodes with the expansion flag of node id set.
// Only the first level carries expansion.
func SetExpanded(nodes []models.BreedNode, id string, expanded bool) []models.BreedNode {
	out := Clone(nodes)
	for i := range out {
		if out[i].ID == id {
			out[i].Expanded = expanded
		}
	}
	return out
}

// View is the visible state of the breed tree: the full tree, the search text
// and the filtered, partially expanded nodes shown to the user
type View struct {
	source  []models.BreedNode
	search  string
	visible []models.BreedNode
}

// NewView creates a view over the full tree with nothing filtered
func NewView(nodes []models.BreedNode) *View {
	return &View{
		source:  Clone(nodes),
		visible: collapse(nodes),
	}
}

// Search filters the view with text. Clearing the text collapses every node.
func (v *View) Search(text string) {
	v.search = text
	v.visible = Filter(v.source, text)
}

// SetExpanded expands or collapses a visible parent node
func (v *View) SetExpanded(id string, expanded bool) {
	v.visible = SetExpanded(v.visible, id, expanded)
}

// SearchText returns the current search text
func (v *View) SearchText() string {
	return v.search
}

// Nodes returns a copy of the visible nodes
func (v *View) Nodes() []models.BreedNode {
	return Clone(v.visible)
}

// Source returns a copy of the full tree
func (v *View) Source() []models.BreedNode {
	return Clone(v.source)
}

// Rows flattens the visible tree for rendering. Children of collapsed parents are omitted.
func (v *View) Rows(selection Selection) []models.TreeRow {
	var rows []models.TreeRow
	for _, node := range v.visible {
		// checkbox state follows the whole family, not just the children left by the filter
		full, ok := Find(v.source, node.ID)
		if !ok {
			full = node
		}
		checked, indeterminate := CheckState(full, selection)
		rows = append(rows, models.TreeRow{
			ID:            node.ID,
			Label:         node.Label,
			HasCaret:      node.HasCaret,
			Expanded:      node.Expanded,
			Checked:       checked,
			Indeterminate: indeterminate,
		})
		if !node.Expanded {
			continue
		}
		for _, child := range node.Children {
			rows = append(rows, models.TreeRow{
				ID:      child.ID,
				Label:   child.Label,
				Depth:   1,
				Checked: selection.Contains(child.ID),
			})
		}
	}
	return rows
}
