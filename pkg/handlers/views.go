package handlers

import (
	"fmt"
	"time"

	"breed-gallery/pkg/models"
)

// SlideshowInterval is the delay between viewer slides
const SlideshowInterval = 3 * time.Second

// stripRadius is how many thumbnails the viewer shows on each side of the current photo
const stripRadius = 4

type rowView struct {
	ID            string
	Label         string
	Child         bool
	HasCaret      bool
	Expanded      bool
	Checked       bool
	Indeterminate bool
}

type photoView struct {
	Href   string
	Src    string
	Title  string
	Width  int
	Height int
	Style  string
}

type indexView struct {
	ThemeClass    string
	Search        string
	TreeLoading   bool
	Rows          []rowView
	RowHeight     int
	MinRowHeight  int
	MaxRowHeight  int
	RowHeightStep int
	Shuffle       bool
	DarkTheme     bool
	Loading       bool
	Empty         bool
	Photos        []photoView
	SelectedCount int
}

type stripView struct {
	Href    string
	Src     string
	Current bool
}

type viewerView struct {
	ThemeClass  string
	Title       string
	Src         string
	Counter     string
	CloseHref   string
	PrevHref    string
	NextHref    string
	Download    string
	ShareURL    string
	Slideshow   bool
	SlideHref   string
	Refresh     string
	Strip       []stripView
	Width       int
	Height      int
	Breed       string
	HasMultiple bool
}

func themeClass(dark bool) string {
	if dark {
		return "bp5-dark"
	}
	return ""
}

func newIndexView(page models.Page) indexView {
	view := indexView{
		ThemeClass:    themeClass(page.Settings.DarkTheme),
		Search:        page.Search,
		TreeLoading:   page.TreeLoading,
		RowHeight:     page.Settings.RowHeight,
		MinRowHeight:  page.MinRowHeight,
		MaxRowHeight:  page.MaxRowHeight,
		RowHeightStep: page.RowHeightStep,
		Shuffle:       page.Settings.Shuffle,
		DarkTheme:     page.Settings.DarkTheme,
		Loading:       page.Loading,
		Empty:         page.Empty,
		SelectedCount: len(page.Selected),
	}
	for _, row := range page.Tree {
		view.Rows = append(view.Rows, rowView{
			ID:            row.ID,
			Label:         row.Label,
			Child:         row.Depth > 0,
			HasCaret:      row.HasCaret,
			Expanded:      row.Expanded,
			Checked:       row.Checked,
			Indeterminate: row.Indeterminate,
		})
	}
	for i, photo := range page.Photos {
		view.Photos = append(view.Photos, photoView{
			Href:   fmt.Sprintf("/photos/%d", i),
			Src:    photo.Src,
			Title:  photo.Title,
			Width:  photo.Width,
			Height: photo.Height,
			Style:  rowStyle(photo, page.Settings.RowHeight),
		})
	}
	return view
}

// rowStyle sizes a grid cell so that photos of a row share the target height
func rowStyle(photo models.Photo, rowHeight int) string {
	width := rowHeight
	if photo.Height > 0 {
		width = photo.Width * rowHeight / photo.Height
	}
	return fmt.Sprintf("flex-grow: %d; flex-basis: %dpx; height: %dpx", width, width, rowHeight)
}

func newViewerView(viewer models.Viewer) viewerView {
	view := viewerView{
		ThemeClass:  themeClass(viewer.DarkTheme),
		Title:       viewer.Photo.Title,
		Src:         viewer.Photo.Src,
		Counter:     fmt.Sprintf("%d / %d", viewer.Index+1, viewer.Total),
		CloseHref:   "/",
		PrevHref:    fmt.Sprintf("/photos/%d", viewer.Prev),
		NextHref:    fmt.Sprintf("/photos/%d", viewer.Next),
		Download:    fmt.Sprintf("/photos/%d/download", viewer.Index),
		ShareURL:    viewer.ShareURL,
		Slideshow:   viewer.Slideshow,
		Width:       viewer.Photo.Width,
		Height:      viewer.Photo.Height,
		Breed:       viewer.Photo.Breed,
		HasMultiple: viewer.Total > 1,
	}
	if viewer.Slideshow {
		view.SlideHref = fmt.Sprintf("/photos/%d", viewer.Index)
		view.Refresh = fmt.Sprintf("%d;url=/photos/%d?slideshow=1", viewer.Interval, viewer.Next)
	} else {
		view.SlideHref = fmt.Sprintf("/photos/%d?slideshow=1", viewer.Index)
	}
	for _, item := range viewer.Strip {
		view.Strip = append(view.Strip, stripView{
			Href:    fmt.Sprintf("/photos/%d", item.Index),
			Src:     fmt.Sprintf("/photos/%d/thumbnail", item.Index),
			Current: item.Current,
		})
	}
	return view
}

// buildViewer computes the navigation of the viewer opened at index
func buildViewer(photo models.Photo, index, total int, settings models.Settings, slideshow bool) models.Viewer {
	viewer := models.Viewer{
		Index:     index,
		Total:     total,
		Photo:     photo,
		Slideshow: slideshow,
		Interval:  int(SlideshowInterval / time.Second),
		ShareURL:  photo.Src,
		DarkTheme: settings.DarkTheme,
	}
	if total <= 0 || index < 0 || index >= total {
		return viewer
	}
	viewer.Prev = (index - 1 + total) % total
	viewer.Next = (index + 1) % total
	start := max(0, index-stripRadius)
	end := min(total, index+stripRadius+1)
	for i := start; i < end; i++ {
		viewer.Strip = append(viewer.Strip, models.StripItem{Index: i, Current: i == index})
	}
	return viewer
}
