package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/4kphotoz/website/pkg/lightroom"
	"github.com/4kphotoz/website/pkg/metrics"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/stores"
	"github.com/alitto/pond/v2"
)

const (
	RenditionCacheControl = "public, max-age=86400, stale-while-revalidate=604800"
	FallbackCacheControl  = "public, max-age=300"

	renditionRelPrefix    = "/rels/rendition_type/"
	defaultGalleryWorkers = 4
)

var preferredRenditionLinks = map[string][]string{
	SizeThumbnail: {lightroom.RelRendition640, lightroom.RelRenditionThumbnail2x},
	SizeFullsize:  {lightroom.RelRendition2048, lightroom.RelRendition1280},
}

type GalleryServicer interface {
	ListAlbums(ctx context.Context, includeHidden bool) (AlbumListing, error)
	ListAlbumImages(ctx context.Context, albumID string, limit, offset int) (ImageListing, error)
	ListAllImages(ctx context.Context, includeHidden bool) (ImageListing, error)
	FetchAssetRendition(ctx context.Context, assetID, size string) Rendition
}

type AlbumListing struct {
	Albums      []models.Album `json:"albums"`
	Placeholder bool           `json:"placeholder,omitempty"`
}

type ImageListing struct {
	Images      []models.Image `json:"images"`
	Placeholder bool           `json:"placeholder,omitempty"`
}

/*
Rendition is the outcome of a rendition lookup. Found is false only when the
catalog failed and no fallback image is configured.
*/
type Rendition struct {
	ImageData
	Fallback bool
	Found    bool
}

type GalleryServiceConfig struct {
	Catalog    lightroom.Catalog
	Settings   stores.SettingsRepository
	Fallback   *FallbackImage
	MaxWorkers int
	Now        func() time.Time
}

type GalleryService struct {
	catalog    lightroom.Catalog
	settings   stores.SettingsRepository
	fallback   *FallbackImage
	maxWorkers int
	now        func() time.Time
}

func NewGalleryService(config GalleryServiceConfig) GalleryService {
	workers := config.MaxWorkers
	if workers <= 0 {
		workers = defaultGalleryWorkers
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return GalleryService{
		catalog:    config.Catalog,
		settings:   config.Settings,
		fallback:   config.Fallback,
		maxWorkers: workers,
		now:        now,
	}
}

type albumWithAssets struct {
	album  models.Album
	assets []lightroom.AlbumAssetResource
}

/*
ListAlbums returns the catalog's content albums. Date albums, empty albums
and (unless includeHidden) hidden albums are left out. When the catalog is
not configured or cannot be listed a placeholder listing is returned.
*/
func (s GalleryService) ListAlbums(ctx context.Context, includeHidden bool) (AlbumListing, error) {
	collected, err := s.collectAlbums(ctx, includeHidden)
	if err != nil {
		if !s.catalog.Configured() {
			slog.Info("photo catalog not configured, serving placeholder albums")
		} else {
			slog.Error("error listing catalog albums, serving placeholder albums", "error", err)
		}

		return AlbumListing{Albums: PlaceholderAlbums(s.now()), Placeholder: true}, nil
	}

	result := AlbumListing{Albums: make([]models.Album, 0, len(collected))}

	for _, c := range collected {
		result.Albums = append(result.Albums, c.album)
	}

	return result, nil
}

func (s GalleryService) ListAlbumImages(ctx context.Context, albumID string, limit, offset int) (ImageListing, error) {
	if strings.TrimSpace(albumID) == "" {
		return ImageListing{}, NewValidationError("Album ID required")
	}

	if !s.catalog.Configured() {
		return ImageListing{Images: PlaceholderImages(albumID, s.now()), Placeholder: true}, nil
	}

	assets, err := s.catalog.AlbumAssets(ctx, albumID, limit, offset)
	if err != nil {
		slog.Error("error listing album assets, serving placeholder images", "albumID", albumID, "error", err)
		return ImageListing{Images: PlaceholderImages(albumID, s.now()), Placeholder: true}, nil
	}

	return ImageListing{Images: s.toImages(albumID, assets)}, nil
}

/*
ListAllImages returns the images of every listed album, in album order.
*/
func (s GalleryService) ListAllImages(ctx context.Context, includeHidden bool) (ImageListing, error) {
	collected, err := s.collectAlbums(ctx, includeHidden)
	if err != nil {
		slog.Error("error listing catalog albums, serving placeholder images", "error", err)

		result := ImageListing{Placeholder: true}

		for _, album := range PlaceholderAlbums(s.now()) {
			result.Images = append(result.Images, PlaceholderImages(album.ID, s.now())...)
		}

		return result, nil
	}

	result := ImageListing{Images: []models.Image{}}

	for _, c := range collected {
		result.Images = append(result.Images, s.toImages(c.album.ID, c.assets)...)
	}

	return result, nil
}

/*
FetchAssetRendition resolves an asset rendition through the chain of
preferred asset links, the renditions listing, any other rendition link and
finally the fallback image. It never returns an error.
*/
func (s GalleryService) FetchAssetRendition(ctx context.Context, assetID, size string) Rendition {
	if size != SizeThumbnail {
		size = SizeFullsize
	}

	logger := slog.With("assetID", assetID, "size", size)

	if s.catalog.Configured() {
		if image, ok := s.fetchFromCatalog(ctx, logger, assetID, size); ok {
			metrics.RecordRendition(size, metrics.OutcomeSuccess)
			return Rendition{ImageData: image, Found: true}
		}
	}

	fallback, ok := s.fallback.Get(size)
	if !ok {
		metrics.RecordRendition(size, metrics.OutcomeFailure)
		logger.Error("no rendition and no fallback image available")
		return Rendition{}
	}

	metrics.RecordRendition(size, metrics.OutcomeFallback)
	logger.Info("serving fallback image")

	return Rendition{ImageData: fallback, Fallback: true, Found: true}
}

// RenditionETag is stable for an (asset, size) pair.
func RenditionETag(assetID, size string) string {
	sum := sha1.Sum([]byte(assetID + ":" + size))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func (s GalleryService) fetchFromCatalog(ctx context.Context, logger *slog.Logger, assetID, size string) (ImageData, bool) {
	var (
		err        error
		asset      lightroom.AssetResource
		renditions []lightroom.Rendition
	)

	tried := map[string]bool{}

	try := func(href string) (ImageData, bool) {
		if href == "" || tried[href] {
			return ImageData{}, false
		}

		tried[href] = true

		image, fetchErr := s.catalog.Fetch(ctx, href)
		if fetchErr != nil {
			logger.Warn("error fetching rendition", "href", href, "error", fetchErr)
			return ImageData{}, false
		}

		return ImageData{Body: image.Body, ContentType: image.ContentType}, true
	}

	if asset, err = s.catalog.Asset(ctx, assetID); err != nil {
		logger.Warn("error getting asset", "error", err)
	}

	for _, rel := range preferredRenditionLinks[size] {
		if image, ok := try(asset.Links.Href(rel)); ok {
			return image, true
		}
	}

	if renditions, err = s.catalog.Renditions(ctx, assetID); err != nil {
		logger.Warn("error listing renditions", "error", err)
	}

	if rendition, ok := SelectRendition(renditions, size); ok {
		if image, ok := try(rendition.Href); ok {
			return image, true
		}
	}

	for _, href := range otherRenditionLinks(asset.Links) {
		if image, ok := try(href); ok {
			return image, true
		}
	}

	return ImageData{}, false
}

/*
SelectRendition picks a JPEG rendition matching the requested size. A
thumbnail wants 640 or less on either side, a full size image 1024 or more
on either side. Without a size match the first JPEG is used.
*/
func SelectRendition(renditions []lightroom.Rendition, size string) (lightroom.Rendition, bool) {
	var (
		firstJPEG lightroom.Rendition
		haveJPEG  bool
	)

	for _, r := range renditions {
		if !r.IsJPEG() || r.Href == "" {
			continue
		}

		if !haveJPEG {
			firstJPEG = r
			haveJPEG = true
		}

		if size == SizeThumbnail && (r.Width <= 640 || r.Height <= 640) {
			return r, true
		}

		if size != SizeThumbnail && (r.Width >= 1024 || r.Height >= 1024) {
			return r, true
		}
	}

	return firstJPEG, haveJPEG
}

func otherRenditionLinks(links lightroom.Links) []string {
	rels := make([]string, 0, len(links))

	for rel := range links {
		if strings.HasPrefix(rel, renditionRelPrefix) {
			rels = append(rels, rel)
		}
	}

	sort.Strings(rels)

	result := make([]string, 0, len(rels))

	for _, rel := range rels {
		result = append(result, links[rel].Href)
	}

	return result
}

func (s GalleryService) collectAlbums(ctx context.Context, includeHidden bool) ([]albumWithAssets, error) {
	var (
		err      error
		raw      []lightroom.AlbumResource
		settings models.AdminSettings
	)

	if !s.catalog.Configured() {
		return nil, lightroom.ErrNotConfigured
	}

	if raw, err = s.catalog.Albums(ctx); err != nil {
		return nil, err
	}

	if !includeHidden {
		if settings, err = s.settings.GetSettings(ctx); err != nil {
			return nil, fmt.Errorf("error reading album visibility: %w", err)
		}
	}

	candidates := make([]lightroom.AlbumResource, 0, len(raw))

	for _, album := range raw {
		if IsDateAlbum(album.Payload.Name) {
			slog.Debug("skipping date album", "name", album.Payload.Name)
			continue
		}

		if !includeHidden && !settings.IsAlbumVisible(album.ID) {
			continue
		}

		candidates = append(candidates, album)
	}

	// each task writes only its own slot
	fetched := make([]albumWithAssets, len(candidates))
	pool := pond.NewPool(s.maxWorkers, pond.WithContext(ctx))

	for i, album := range candidates {
		pool.Submit(func() {
			assets, assetsErr := s.catalog.AlbumAssets(ctx, album.ID, 0, 0)
			if assetsErr != nil {
				slog.Error("error checking assets for album", "albumID", album.ID, "error", assetsErr)
				assets = nil
			}

			fetched[i] = albumWithAssets{
				album:  toAlbum(album, assets),
				assets: assets,
			}
		})
	}

	_ = pool.Stop().Wait()

	result := make([]albumWithAssets, 0, len(fetched))

	for _, f := range fetched {
		if f.album.AssetCount == 0 {
			slog.Debug("skipping empty album", "albumID", f.album.ID, "name", f.album.Name)
			continue
		}

		result = append(result, f)
	}

	return result, nil
}

func toAlbum(album lightroom.AlbumResource, assets []lightroom.AlbumAssetResource) models.Album {
	result := models.Album{
		ID:         album.ID,
		Name:       CleanAlbumName(album.Payload.Name),
		AssetCount: len(assets),
		Created:    album.Created,
		Modified:   album.Updated,
	}

	if len(assets) > 0 && assets[0].AssetID() != "" {
		result.CoverImage = ProxyImageURL(assets[0].AssetID(), SizeThumbnail)
	}

	return result
}

func (s GalleryService) toImages(albumID string, assets []lightroom.AlbumAssetResource) []models.Image {
	result := make([]models.Image, 0, len(assets))

	for _, asset := range assets {
		id := asset.AssetID()
		if id == "" {
			continue
		}

		fileName := asset.Asset.Payload.FileName()
		if fileName == "" {
			fileName = asset.Payload.FileName()
		}

		result = append(result, models.Image{
			ID:          id,
			AlbumID:     albumID,
			URL:         ProxyImageURL(id, SizeFullsize),
			Thumbnail:   ProxyImageURL(id, SizeThumbnail),
			Title:       ImageTitle(fileName, id),
			Description: imageDescription,
			Date: FormatCatalogDate(
				asset.Asset.Payload.CaptureDate,
				asset.Payload.CaptureDate,
				asset.Created,
				asset.Updated,
			),
			Tags: append([]string{}, imageTags...),
		})
	}

	return result
}
