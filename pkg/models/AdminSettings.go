package models

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// HighlightImageCount is the number of curated images shown on the home page.
	HighlightImageCount = 6

	// FallbackImageRef is the placeholder image every configurable slot starts with.
	FallbackImageRef = "/nature.jpg"
)

var (
	ErrUnknownPage    = errors.New("unknown page")
	ErrUnknownSection = errors.New("unknown page section")
)

/*
Page identifies a site page that has admin-configurable imagery.
*/
type Page string

const (
	PagePhotography    Page = "photography"
	PageGraphicDesign  Page = "graphicDesign"
	PagePrintLab       Page = "printLab"
	PagePhotoBooth     Page = "photoBooth"
	PageContact        Page = "contact"
	PageMoreauCatholic Page = "moreauCatholic"
)

/*
pageSections is the closed set of (page, section) pairs. Anything not
listed here is rejected by ValidatePageSection.
*/
var pageSections = map[Page][]string{
	PagePhotography:    {"portraits", "events", "mediaDay", "sports", "marketing", "sportsPortraits", "littleLeague"},
	PageGraphicDesign:  {"logos", "posters", "banners", "socialMedia", "portfolio"},
	PagePrintLab:       {"banners", "posters", "businessCards", "stickers", "flyers", "packaging", "showcase"},
	PagePhotoBooth:     {"mirrorBooth", "stationaryBooth", "events1", "events2", "events3", "events4", "events5", "events6"},
	PageContact:        {"studio"},
	PageMoreauCatholic: {"athletics1", "athletics2", "athletics3", "athletics4", "athletics5", "athletics6"},
}

// PageImages maps page -> section -> image reference.
type PageImages map[Page]map[string]string

type AdminSettings struct {
	HighlightImages []string        `json:"highlightImages"`
	VisibleAlbums   map[string]bool `json:"visibleAlbums"`
	PageImages      PageImages      `json:"pageImages"`
}

// Pages returns every configurable page in a stable order.
func Pages() []Page {
	return []Page{
		PagePhotography,
		PageGraphicDesign,
		PagePrintLab,
		PagePhotoBooth,
		PageContact,
		PageMoreauCatholic,
	}
}

// Sections returns the sections of a page, or nil for an unknown page.
func Sections(page Page) []string {
	return slices.Clone(pageSections[page])
}

func ValidatePage(page string) error {
	if _, ok := pageSections[Page(page)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}

	return nil
}

func ValidatePageSection(page, section string) error {
	if err := ValidatePage(page); err != nil {
		return err
	}

	sections := pageSections[Page(page)]

	if !slices.Contains(sections, section) {
		return fmt.Errorf("%w: %q on page %q", ErrUnknownSection, section, page)
	}

	return nil
}

func DefaultPageImages() PageImages {
	result := PageImages{}

	for page, sections := range pageSections {
		result[page] = make(map[string]string, len(sections))

		for _, section := range sections {
			result[page][section] = FallbackImageRef
		}
	}

	return result
}

func DefaultAdminSettings() AdminSettings {
	highlights := make([]string, HighlightImageCount)
	for i := range highlights {
		highlights[i] = FallbackImageRef
	}

	return AdminSettings{
		HighlightImages: highlights,
		VisibleAlbums:   map[string]bool{},
		PageImages:      DefaultPageImages(),
	}
}

/*
IsAlbumVisible reports whether an album should be shown publicly. Albums
the admin never touched are visible.
*/
func (s AdminSettings) IsAlbumVisible(albumID string) bool {
	visible, ok := s.VisibleAlbums[albumID]
	return !ok || visible
}

/*
Normalize brings a persisted document in line with the current page table.
Missing slots get the fallback image and slots that no longer exist are
dropped. Nil maps are replaced with empty ones.
*/
func (s *AdminSettings) Normalize() {
	if s.VisibleAlbums == nil {
		s.VisibleAlbums = map[string]bool{}
	}

	if s.HighlightImages == nil {
		s.HighlightImages = DefaultAdminSettings().HighlightImages
	}

	normalized := DefaultPageImages()

	for page, sections := range s.PageImages {
		if _, ok := normalized[page]; !ok {
			continue
		}

		for section, image := range sections {
			if _, ok := normalized[page][section]; ok {
				normalized[page][section] = image
			}
		}
	}

	s.PageImages = normalized
}

/*
Clone returns a deep copy so callers can mutate the result without touching
the stored document.
*/
func (s AdminSettings) Clone() AdminSettings {
	result := AdminSettings{
		HighlightImages: slices.Clone(s.HighlightImages),
		VisibleAlbums:   make(map[string]bool, len(s.VisibleAlbums)),
		PageImages:      make(PageImages, len(s.PageImages)),
	}

	for id, visible := range s.VisibleAlbums {
		result.VisibleAlbums[id] = visible
	}

	for page, sections := range s.PageImages {
		result.PageImages[page] = make(map[string]string, len(sections))

		for section, image := range sections {
			result.PageImages[page][section] = image
		}
	}

	return result
}
