package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/services"
)

type countingGallery struct {
	mu          sync.Mutex
	calls       map[string]int
	placeholder bool
}

func newCountingGallery() *countingGallery {
	return &countingGallery{calls: map[string]int{}}
}

func (g *countingGallery) record(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[name]++
}

func (g *countingGallery) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *countingGallery) ListAlbums(_ context.Context, includeHidden bool) (services.AlbumListing, error) {
	if includeHidden {
		g.record("albums-hidden")
	} else {
		g.record("albums")
	}

	return services.AlbumListing{
		Albums:      []models.Album{{ID: "a1", Name: "Football"}, {ID: "a2", Name: "Soccer"}},
		Placeholder: g.placeholder,
	}, nil
}

func (g *countingGallery) ListAlbumImages(_ context.Context, albumID string, _, _ int) (services.ImageListing, error) {
	g.record("images:" + albumID)
	return services.ImageListing{Images: []models.Image{{ID: "img", AlbumID: albumID}}, Placeholder: g.placeholder}, nil
}

func (g *countingGallery) ListAllImages(_ context.Context, _ bool) (services.ImageListing, error) {
	g.record("all-images")
	return services.ImageListing{Images: []models.Image{{ID: "img"}}, Placeholder: g.placeholder}, nil
}

func (g *countingGallery) FetchAssetRendition(_ context.Context, _, _ string) services.Rendition {
	g.record("rendition")
	return services.Rendition{Found: true}
}

func TestGalleryCacheServesFromCacheUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gallery := newCountingGallery()

	c := NewGalleryCache(GalleryCacheConfig{
		GalleryService: gallery,
		TTL:            time.Minute,
		Now:            func() time.Time { return now },
	})

	ctx := context.Background()

	for range 3 {
		if _, err := c.ListAlbums(ctx, false); err != nil {
			t.Fatalf("ListAlbums() error = %v", err)
		}
	}

	if got := gallery.count("albums"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	now = now.Add(2 * time.Minute)

	if _, err := c.ListAlbums(ctx, false); err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}

	if got := gallery.count("albums"); got != 2 {
		t.Errorf("upstream calls after expiry = %d, want 2", got)
	}
}

func TestGalleryCacheKeysOnVisibility(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute})

	_, _ = c.ListAlbums(context.Background(), false)
	_, _ = c.ListAlbums(context.Background(), true)

	if gallery.count("albums") != 1 || gallery.count("albums-hidden") != 1 {
		t.Errorf("calls = %v, want one public and one hidden listing", gallery.calls)
	}
}

func TestGalleryCacheSkipsPlaceholders(t *testing.T) {
	gallery := newCountingGallery()
	gallery.placeholder = true

	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute})

	_, _ = c.ListAllImages(context.Background(), false)
	_, _ = c.ListAllImages(context.Background(), false)

	if got := gallery.count("all-images"); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestGalleryCacheInvalidate(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute})

	_, _ = c.ListAlbumImages(context.Background(), "a1", 0, 0)
	c.Invalidate()
	_, _ = c.ListAlbumImages(context.Background(), "a1", 0, 0)

	if got := gallery.count("images:a1"); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestGalleryCacheDisabledWithZeroTTL(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery})

	_, _ = c.ListAlbums(context.Background(), false)
	_, _ = c.ListAlbums(context.Background(), false)
	c.CreateCache()

	if got := gallery.count("albums"); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestCreateCacheWarmsEveryPublicAlbum(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute, MaxCacheWorkers: 2})

	c.CreateCache()

	for _, name := range []string{"albums", "all-images", "images:a1", "images:a2"} {
		if got := gallery.count(name); got != 1 {
			t.Errorf("%s calls = %d, want 1", name, got)
		}
	}

	_, _ = c.ListAlbumImages(context.Background(), "a2", 0, 0)

	if got := gallery.count("images:a2"); got != 1 {
		t.Errorf("images:a2 calls after warm = %d, want 1", got)
	}
}

func TestFetchAssetRenditionPassesThrough(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute})

	_ = c.FetchAssetRendition(context.Background(), "asset", services.SizeThumbnail)
	_ = c.FetchAssetRendition(context.Background(), "asset", services.SizeThumbnail)

	if got := gallery.count("rendition"); got != 2 {
		t.Errorf("rendition calls = %d, want 2", got)
	}
}

func TestInvalidateThroughInterfaceClearsSharedEntries(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Minute})

	// the admin controller holds the cache as a copy behind this interface
	var invalidator interface{ Invalidate() } = c

	_, _ = c.ListAlbums(context.Background(), false)
	_, _ = c.ListAllImages(context.Background(), false)
	invalidator.Invalidate()
	_, _ = c.ListAlbums(context.Background(), false)
	_, _ = c.ListAllImages(context.Background(), false)

	if got := gallery.count("albums"); got != 2 {
		t.Errorf("album listing calls after Invalidate = %d, want 2", got)
	}

	if got := gallery.count("all-images"); got != 2 {
		t.Errorf("all images calls after Invalidate = %d, want 2", got)
	}
}

func TestCreateCacheRefreshesStaleListings(t *testing.T) {
	gallery := newCountingGallery()
	c := NewGalleryCache(GalleryCacheConfig{GalleryService: gallery, TTL: time.Hour})

	c.CreateCache()
	c.CreateCache()

	if got := gallery.count("albums"); got != 2 {
		t.Errorf("album listing calls = %d, want 2", got)
	}
}
