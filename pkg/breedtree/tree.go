// Package breedtree builds the two-level breed tree and implements its view
// state (search filter, expansion) and the checkbox selection rules.
package breedtree

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"breed-gallery/pkg/models"
)

// Build turns the taxonomy (breed -> sub-breeds) into tree nodes sorted by breed
func Build(taxonomy map[string][]string) []models.BreedNode {
	breeds := make([]string, 0, len(taxonomy))
	for breed := range taxonomy {
		breeds = append(breeds, breed)
	}
	sort.Strings(breeds)

	nodes := make([]models.BreedNode, 0, len(breeds))
	for _, breed := range breeds {
		node := models.BreedNode{
			ID:    breed,
			Label: Capitalize(breed),
		}
		subBreeds := taxonomy[breed]
		if len(subBreeds) > 0 {
			node.HasCaret = true
			node.Children = make([]models.BreedNode, 0, len(subBreeds))
			for _, sub := range subBreeds {
				node.Children = append(node.Children, models.BreedNode{
					ID:    ChildID(breed, sub),
					Label: Capitalize(sub) + " " + Capitalize(breed),
				})
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Capitalize upper-cases the first letter of s
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ChildID returns the identifier of a sub-breed
func ChildID(breed, sub string) string {
	return breed + "/" + sub
}

// ParentID returns the parent breed of a sub-breed identifier, and false for top-level identifiers
func ParentID(id string) (string, bool) {
	parent, _, found := strings.Cut(id, "/")
	if !found {
		return "", false
	}
	return parent, true
}

// Find returns the node with the given identifier at either level
func Find(nodes []models.BreedNode, id string) (models.BreedNode, bool) {
	if parent, ok := ParentID(id); ok {
		p, found := Find(nodes, parent)
		if !found {
			return models.BreedNode{}, false
		}
		for _, child := range p.Children {
			if child.ID == id {
				return child, true
			}
		}
		return models.BreedNode{}, false
	}
	for _, node := range nodes {
		if node.ID == id {
			return node, true
		}
	}
	return models.BreedNode{}, false
}

// Clone returns a deep copy of nodes
func Clone(nodes []models.BreedNode) []models.BreedNode {
	if nodes == nil {
		return nil
	}
	out := make([]models.BreedNode, len(nodes))
	for i, node := range nodes {
		out[i] = node
		out[i].Children = Clone(node.Children)
	}
	return out
}
