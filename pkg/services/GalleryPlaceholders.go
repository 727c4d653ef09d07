package services

import (
	"fmt"
	"time"

	"github.com/4kphotoz/website/pkg/models"
)

const placeholderImageCount = 12

var placeholderAlbums = []struct {
	id         string
	name       string
	assetCount int
}{
	{id: "mock-portraits", name: "25 Karina Headshots", assetCount: 15},
	{id: "mock-events", name: "24 Tiana Grad", assetCount: 23},
	{id: "mock-media-day", name: "22 Winter Media Day", assetCount: 18},
	{id: "mock-sports", name: "23 MCHS Baseball", assetCount: 31},
	{id: "mock-marketing", name: "23 Moreau SB vs Kennedy", assetCount: 12},
}

var imageTags = []string{"professional", "photography"}

const imageDescription = "Professional photography"

// PlaceholderAlbums is served when the catalog is unavailable.
func PlaceholderAlbums(now time.Time) []models.Album {
	stamp := now.UTC().Format(time.RFC3339)
	result := make([]models.Album, 0, len(placeholderAlbums))

	for _, album := range placeholderAlbums {
		result = append(result, models.Album{
			ID:         album.id,
			Name:       album.name,
			AssetCount: album.assetCount,
			CoverImage: models.FallbackImageRef,
			Created:    stamp,
			Modified:   stamp,
		})
	}

	return result
}

func PlaceholderImages(albumID string, now time.Time) []models.Image {
	date := now.UTC().Format(displayDateLayout)
	result := make([]models.Image, 0, placeholderImageCount)

	for i := 1; i <= placeholderImageCount; i++ {
		result = append(result, models.Image{
			ID:          fmt.Sprintf("%s-%d", albumID, i),
			AlbumID:     albumID,
			URL:         models.FallbackImageRef,
			Thumbnail:   models.FallbackImageRef,
			Title:       fmt.Sprintf("Image %d", i),
			Description: imageDescription,
			Date:        date,
			Tags:        append([]string{}, imageTags...),
		})
	}

	return result
}
