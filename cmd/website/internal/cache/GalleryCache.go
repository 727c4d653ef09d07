package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/4kphotoz/website/pkg/services"
	"github.com/alitto/pond/v2"
)

type CacheCreator interface {
	CreateCache()
}

type GalleryCacheConfig struct {
	GalleryService  services.GalleryServicer
	MaxCacheWorkers int
	ShutdownCtx     context.Context
	TTL             time.Duration
	Now             func() time.Time
}

type entry struct {
	value   any
	expires time.Time
}

/*
GalleryCache keeps gallery listings for a fixed TTL in front of the gallery
service. Placeholder listings are never cached. Renditions pass straight
through since they are cached by HTTP clients instead.
*/
type GalleryCache struct {
	galleryService  services.GalleryServicer
	maxCacheWorkers int
	shutdownCtx     context.Context
	ttl             time.Duration
	now             func() time.Time

	mu      *sync.RWMutex
	entries map[string]entry
}

func NewGalleryCache(config GalleryCacheConfig) GalleryCache {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	workers := config.MaxCacheWorkers
	if workers <= 0 {
		workers = 4
	}

	ctx := config.ShutdownCtx
	if ctx == nil {
		ctx = context.Background()
	}

	return GalleryCache{
		galleryService:  config.GalleryService,
		maxCacheWorkers: workers,
		shutdownCtx:     ctx,
		ttl:             config.TTL,
		now:             now,
		mu:              &sync.RWMutex{},
		entries:         map[string]entry{},
	}
}

func (c GalleryCache) ListAlbums(ctx context.Context, includeHidden bool) (services.AlbumListing, error) {
	key := fmt.Sprintf("albums:%t", includeHidden)

	if cached, ok := c.get(key); ok {
		return cached.(services.AlbumListing), nil
	}

	listing, err := c.galleryService.ListAlbums(ctx, includeHidden)
	if err == nil && !listing.Placeholder {
		c.put(key, listing)
	}

	return listing, err
}

func (c GalleryCache) ListAlbumImages(ctx context.Context, albumID string, limit, offset int) (services.ImageListing, error) {
	key := fmt.Sprintf("images:%s:%d:%d", albumID, limit, offset)

	if cached, ok := c.get(key); ok {
		return cached.(services.ImageListing), nil
	}

	listing, err := c.galleryService.ListAlbumImages(ctx, albumID, limit, offset)
	if err == nil && !listing.Placeholder {
		c.put(key, listing)
	}

	return listing, err
}

func (c GalleryCache) ListAllImages(ctx context.Context, includeHidden bool) (services.ImageListing, error) {
	key := fmt.Sprintf("all-images:%t", includeHidden)

	if cached, ok := c.get(key); ok {
		return cached.(services.ImageListing), nil
	}

	listing, err := c.galleryService.ListAllImages(ctx, includeHidden)
	if err == nil && !listing.Placeholder {
		c.put(key, listing)
	}

	return listing, err
}

func (c GalleryCache) FetchAssetRendition(ctx context.Context, assetID, size string) services.Rendition {
	return c.galleryService.FetchAssetRendition(ctx, assetID, size)
}

// Invalidate drops every cached listing.
func (c GalleryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

/*
CreateCache refreshes the public listings and the first page of every
public album so visitors rarely wait on the catalog.
*/
func (c GalleryCache) CreateCache() {
	if c.ttl <= 0 {
		return
	}

	slog.Info("starting gallery cache creation...")

	c.Invalidate()

	albums, err := c.ListAlbums(c.shutdownCtx, false)
	if err != nil {
		slog.Error("error warming album listing", "error", err)
		return
	}

	if albums.Placeholder {
		slog.Info("photo catalog unavailable, skipping gallery cache creation")
		return
	}

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	pool.Submit(func() {
		if _, err := c.ListAllImages(c.shutdownCtx, false); err != nil {
			slog.Error("error warming all images listing", "error", err)
		}
	})

	for _, album := range albums.Albums {
		pool.Submit(func() {
			if _, err := c.ListAlbumImages(c.shutdownCtx, album.ID, 0, 0); err != nil {
				slog.Error("error warming album images", "albumID", album.ID, "error", err)
			}
		})
	}

	_ = pool.Stop().Wait()
	slog.Info("gallery cache created", "albums", len(albums.Albums))
}

func (c GalleryCache) get(key string) (any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}

	return e.value, true
}

func (c GalleryCache) put(key string, value any) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}
