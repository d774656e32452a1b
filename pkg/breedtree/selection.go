package breedtree

import (
	"slices"

	"breed-gallery/pkg/models"
)

// Selection is the ordered set of selected breed and sub-breed identifiers
type Selection []string

// Contains reports whether id is selected
func (s Selection) Contains(id string) bool {
	return slices.Contains(s, id)
}

func (s Selection) with(ids ...string) Selection {
	out := slices.Clone(s)
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

func (s Selection) without(ids ...string) Selection {
	out := make(Selection, 0, len(s))
	for _, id := range s {
		if !slices.Contains(ids, id) {
			out = append(out, id)
		}
	}
	return out
}

// ActionKind identifies a selection transition
type ActionKind int

const (
	// ActionToggle flips the selection of one node
	ActionToggle ActionKind = iota
	// ActionDeselectAll clears the selection
	ActionDeselectAll
)

// Action is a selection transition request
type Action struct {
	Kind ActionKind
	ID   string
}

// Toggle returns the action that flips node id
func Toggle(id string) Action {
	return Action{Kind: ActionToggle, ID: id}
}

// DeselectAll returns the action that clears the selection
func DeselectAll() Action {
	return Action{Kind: ActionDeselectAll}
}

// Reduce applies action to the current selection and returns the new selection.
// The current selection is never modified.
//
// Toggling a parent sets the parent and all of its children to the same state.
// Toggling a child flips the child, then the parent is selected iff all of its
// children are. Unknown identifiers leave the selection unchanged.
func Reduce(tree []models.BreedNode, current Selection, action Action) Selection {
	switch action.Kind {
	case ActionDeselectAll:
		return Selection{}
	case ActionToggle:
	default:
		return slices.Clone(current)
	}

	node, ok := Find(tree, action.ID)
	if !ok {
		return slices.Clone(current)
	}

	if node.IsParent() {
		family := familyIDs(node)
		if current.Contains(node.ID) {
			return current.without(family...)
		}
		return current.with(family...)
	}

	var next Selection
	if current.Contains(node.ID) {
		next = current.without(node.ID)
	} else {
		next = current.with(node.ID)
	}

	parentID, isChild := ParentID(node.ID)
	if !isChild {
		return next
	}
	parent, _ := Find(tree, parentID)
	if allSelected(parent.Children, next) {
		return next.with(parentID)
	}
	return next.without(parentID)
}

// CheckState returns the checkbox state of node: checked when the node is
// selected, indeterminate when some but not all of its children are
func CheckState(node models.BreedNode, selection Selection) (checked, indeterminate bool) {
	checked = selection.Contains(node.ID)
	if !node.IsParent() {
		return checked, false
	}
	selected := 0
	for _, child := range node.Children {
		if selection.Contains(child.ID) {
			selected++
		}
	}
	return checked, selected > 0 && selected < len(node.Children)
}

func familyIDs(parent models.BreedNode) []string {
	ids := make([]string, 0, len(parent.Children)+1)
	ids = append(ids, parent.ID)
	for _, child := range parent.Children {
		ids = append(ids, child.ID)
	}
	return ids
}

func allSelected(nodes []models.BreedNode, selection Selection) bool {
	for _, node := range nodes {
		if !selection.Contains(node.ID) {
			return false
		}
	}
	return len(nodes) > 0
}
