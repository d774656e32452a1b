package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breed-gallery/pkg/breedtree"
	"breed-gallery/pkg/dogapi/dogapitest"
	"breed-gallery/pkg/models"
)

var taxonomy = map[string][]string{
	"hound":   {"afghan", "basset"},
	"poodle":  {},
	"terrier": {"yorkshire"},
}

func TestListBreeds(t *testing.T) {
	var out bytes.Buffer
	listBreeds(&out, breedtree.Build(taxonomy), false)

	text := out.String()
	assert.Contains(t, text, "▸")
	assert.Contains(t, text, "Poodle")
	assert.NotContains(t, text, "Afghan Hound")
	assert.Contains(t, text, "Total: 3 breeds, 3 sub-breeds")

	out.Reset()
	listBreeds(&out, breedtree.Build(taxonomy), true)
	assert.Contains(t, out.String(), "Afghan Hound")
	assert.Contains(t, out.String(), "hound/basset")
}

func TestListBreeds_SearchExpandsParent(t *testing.T) {
	var out bytes.Buffer
	listBreeds(&out, breedtree.Filter(breedtree.Build(taxonomy), "york"), false)

	text := out.String()
	assert.Contains(t, text, "▾")
	assert.Contains(t, text, "Yorkshire Terrier")
	assert.NotContains(t, text, "Poodle")
	assert.Contains(t, text, "Total: 1 breeds, 1 sub-breeds")
}

func TestShowGallery(t *testing.T) {
	var out bytes.Buffer
	showGallery(&out, []string{"poodle"}, []models.Photo{
		{Src: "http://img/a.jpg", Label: "poodle-0", Width: 300, Height: 200},
	})

	text := out.String()
	assert.Contains(t, text, "Breeds: poodle")
	assert.Contains(t, text, "Photos: 1")
	assert.Contains(t, text, "1. poodle-0")
	assert.Contains(t, text, "Size: 300x200")
}

func TestListBreedsCommand(t *testing.T) {
	api := dogapitest.NewServer(t, taxonomy, nil)
	t.Setenv("DOG_API_URL", "")
	t.Setenv("CONFIG_FILE", "")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"list-breeds", "--api-url", api.APIURL(), "--search", "afghan"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Afghan Hound")
	assert.NotContains(t, out.String(), "Basset Hound")
}
