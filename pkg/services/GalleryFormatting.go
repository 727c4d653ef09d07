package services

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/4kphotoz/website/pkg/lightroom"
)

const (
	DateNotAvailable  = "Date not available"
	displayDateLayout = "January 2, 2006"
)

var (
	// Albums the catalog creates automatically from import dates.
	dateAlbumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\w+\s+\d{1,2},\s+\d{4}`),
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`),
	}

	whitespace = regexp.MustCompile(`\s+`)

	catalogDateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	}
)

func IsDateAlbum(name string) bool {
	for _, pattern := range dateAlbumPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}

	return false
}

// CleanAlbumName turns underscores and dashes into spaces and collapses runs of whitespace.
func CleanAlbumName(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.TrimSpace(whitespace.ReplaceAllString(name, " "))
}

/*
ImageTitle derives a display title from an asset's file name. Assets without
a file name get "Image " and the first 8 characters of their id.
*/
func ImageTitle(fileName, assetID string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))

	if base == "." || base == "/" || base == "" {
		return untitledImage(assetID)
	}

	title := CleanAlbumName(strings.TrimSuffix(base, path.Ext(base)))
	if title == "" {
		return untitledImage(assetID)
	}

	return title
}

func untitledImage(assetID string) string {
	short := assetID
	if len(short) > 8 {
		short = short[:8]
	}

	return "Image " + short
}

/*
FormatCatalogDate renders the first usable timestamp as a readable date.
Empty values and the catalog's null date are skipped.
*/
func FormatCatalogDate(candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)

		if candidate == "" || strings.HasPrefix(candidate, lightroom.NullDate) {
			continue
		}

		for _, layout := range catalogDateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.Format(displayDateLayout)
			}
		}
	}

	return DateNotAvailable
}

func ProxyImageURL(assetID, size string) string {
	return "/api/gallery/image/" + assetID + "/" + size
}
