package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"breed-gallery/pkg/models"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"poodle-2", "poodle-10", true},
		{"poodle-10", "poodle-2", false},
		{"poodle-2", "poodle-2", false},
		{"bull-3", "bulldog-0", true},
		{"hound-9", "hound/afghan-0", true},
		{"akita-1", "boxer-0", true},
		{"poodle-02", "poodle-3", true},
		{"poodle", "poodle-0", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, naturalLess(tt.a, tt.b), "%s < %s", tt.a, tt.b)
	}
}

func TestSortByLabel(t *testing.T) {
	photos := []models.Photo{
		{Label: "terrier/yorkshire-1"},
		{Label: "poodle-10"},
		{Label: "poodle-9"},
		{Label: "terrier/yorkshire-0"},
		{Label: "poodle-0"},
	}

	SortByLabel(photos)

	assert.Equal(t, []string{
		"poodle-0", "poodle-9", "poodle-10",
		"terrier/yorkshire-0", "terrier/yorkshire-1",
	}, labels(photos))
}

func TestShuffleKeepsElements(t *testing.T) {
	photos := make([]models.Photo, 20)
	for i := range photos {
		photos[i].Label = SortableLabel("akita", i)
	}
	before := labels(photos)

	Shuffle(photos)

	assert.ElementsMatch(t, before, labels(photos))
}
