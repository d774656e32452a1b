package gallery

import (
	"fmt"
	"math/rand"
	"sort"
	"unicode"

	"breed-gallery/pkg/models"
)

// SortableLabel returns the label used to order photos when shuffle is off
func SortableLabel(breed string, index int) string {
	return fmt.Sprintf("%s-%d", breed, index)
}

// naturalLess compares strings in a way that treats numbers as numbers rather than characters.
// For example: "poodle-2" < "poodle-10"
func naturalLess(s1, s2 string) bool {
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		c1, c2 := rune(s1[i]), rune(s2[j])

		if unicode.IsDigit(c1) && unicode.IsDigit(c2) {
			// Skip leading zeros, then the longer run of digits is the bigger number
			for i < len(s1) && s1[i] == '0' {
				i++
			}
			for j < len(s2) && s2[j] == '0' {
				j++
			}
			start1, start2 := i, j
			for i < len(s1) && unicode.IsDigit(rune(s1[i])) {
				i++
			}
			for j < len(s2) && unicode.IsDigit(rune(s2[j])) {
				j++
			}
			num1, num2 := s1[start1:i], s2[start2:j]
			if len(num1) != len(num2) {
				return len(num1) < len(num2)
			}
			if num1 != num2 {
				return num1 < num2
			}
			continue
		}

		if c1 != c2 {
			return c1 < c2
		}
		i++
		j++
	}

	// If we've reached the end of one string but not the other
	return len(s1)-i < len(s2)-j
}

// SortByLabel orders photos by breed, then by fetch index
func SortByLabel(photos []models.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		return naturalLess(photos[i].Label, photos[j].Label)
	})
}

// Shuffle randomly permutes photos
func Shuffle(photos []models.Photo) {
	rand.Shuffle(len(photos), func(i, j int) {
		photos[i], photos[j] = photos[j], photos[i]
	})
}
