package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/services"
	"github.com/goccy/go-json"
)

type stubSession struct {
	admin *models.AdminUser
}

func (s *stubSession) Get(_ *http.Request) (*models.AdminUser, error) {
	if s.admin == nil {
		return nil, errors.New("no session")
	}

	return s.admin, nil
}

func (s *stubSession) Set(_ *http.Request, value *models.AdminUser) error {
	s.admin = value
	return nil
}

func (s *stubSession) Save(_ http.ResponseWriter, _ *http.Request) error    { return nil }
func (s *stubSession) Destroy(_ http.ResponseWriter, _ *http.Request) error { return nil }

type stubGallery struct {
	includeHidden bool
	albumID       string
	limit, offset int
	rendition     services.Rendition
}

func (g *stubGallery) ListAlbums(_ context.Context, includeHidden bool) (services.AlbumListing, error) {
	g.includeHidden = includeHidden
	return services.AlbumListing{Albums: []models.Album{{ID: "a1", Name: "Football"}}}, nil
}

func (g *stubGallery) ListAlbumImages(_ context.Context, albumID string, limit, offset int) (services.ImageListing, error) {
	g.albumID, g.limit, g.offset = albumID, limit, offset
	return services.ImageListing{Images: []models.Image{{ID: "img", AlbumID: albumID}}}, nil
}

func (g *stubGallery) ListAllImages(_ context.Context, includeHidden bool) (services.ImageListing, error) {
	g.includeHidden = includeHidden
	return services.ImageListing{Images: []models.Image{}}, nil
}

func (g *stubGallery) FetchAssetRendition(_ context.Context, _, _ string) services.Rendition {
	return g.rendition
}

func newController(gallery *stubGallery, session *stubSession) GalleryController {
	return NewGalleryController(GalleryControllerConfig{GalleryService: gallery, Session: session})
}

func TestListingDefaultsToAlbums(t *testing.T) {
	gallery := &stubGallery{}
	c := newController(gallery, &stubSession{})

	w := httptest.NewRecorder()
	c.Listing(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	got := services.AlbumListing{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(got.Albums) != 1 || got.Albums[0].ID != "a1" {
		t.Errorf("albums = %+v", got.Albums)
	}
}

func TestListingIncludeHiddenRequiresAdmin(t *testing.T) {
	tests := []struct {
		name    string
		session *stubSession
		want    bool
	}{
		{name: "anonymous", session: &stubSession{}, want: false},
		{name: "admin", session: &stubSession{admin: &models.AdminUser{Username: "admin"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gallery := &stubGallery{}
			c := newController(gallery, tt.session)

			w := httptest.NewRecorder()
			c.Listing(w, httptest.NewRequest(http.MethodGet, "/api/gallery?action=all-images&includeHidden=true", nil))

			if gallery.includeHidden != tt.want {
				t.Errorf("includeHidden = %v, want %v", gallery.includeHidden, tt.want)
			}
		})
	}
}

func TestListingBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		message string
	}{
		{name: "missing album id", target: "/api/gallery?action=images", message: "Album ID required"},
		{name: "unknown action", target: "/api/gallery?action=videos", message: "Invalid action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(&stubGallery{}, &stubSession{})

			w := httptest.NewRecorder()
			c.Listing(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}

			if !strings.Contains(w.Body.String(), tt.message) {
				t.Errorf("body = %s, want %q", w.Body.String(), tt.message)
			}
		})
	}
}

func TestListingPassesPagination(t *testing.T) {
	gallery := &stubGallery{}
	c := newController(gallery, &stubSession{})

	w := httptest.NewRecorder()
	c.Listing(w, httptest.NewRequest(http.MethodGet, "/api/gallery?action=images&albumId=a1&limit=10&offset=-4", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if gallery.albumID != "a1" || gallery.limit != 10 || gallery.offset != 0 {
		t.Errorf("got album %q limit %d offset %d", gallery.albumID, gallery.limit, gallery.offset)
	}
}

func imageRequest(assetID, size string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/gallery/image/"+assetID+"/"+size, nil)
	r.SetPathValue("assetId", assetID)
	r.SetPathValue("size", size)
	return r
}

func TestImageRejectsUnknownSize(t *testing.T) {
	c := newController(&stubGallery{}, &stubSession{})

	w := httptest.NewRecorder()
	c.Image(w, imageRequest("asset1", "huge"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestImageServesRenditionWithETag(t *testing.T) {
	gallery := &stubGallery{rendition: services.Rendition{
		ImageData: services.ImageData{Body: []byte("jpeg"), ContentType: "image/jpeg"},
		Found:     true,
	}}
	c := newController(gallery, &stubSession{})

	w := httptest.NewRecorder()
	c.Image(w, imageRequest("asset1", services.SizeThumbnail))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if got := w.Header().Get("ETag"); got != services.RenditionETag("asset1", services.SizeThumbnail) {
		t.Errorf("ETag = %q", got)
	}

	if got := w.Header().Get("Cache-Control"); got != services.RenditionCacheControl {
		t.Errorf("Cache-Control = %q", got)
	}

	if w.Body.String() != "jpeg" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestImageNotModified(t *testing.T) {
	c := newController(&stubGallery{}, &stubSession{})

	r := imageRequest("asset1", services.SizeFullsize)
	r.Header.Set("If-None-Match", services.RenditionETag("asset1", services.SizeFullsize))

	w := httptest.NewRecorder()
	c.Image(w, r)

	if w.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", w.Code)
	}
}

func TestImageFallbackIsNotCachedLong(t *testing.T) {
	gallery := &stubGallery{rendition: services.Rendition{
		ImageData: services.ImageData{Body: []byte("fallback")},
		Fallback:  true,
		Found:     true,
	}}
	c := newController(gallery, &stubSession{})

	w := httptest.NewRecorder()
	c.Image(w, imageRequest("asset1", services.SizeThumbnail))

	if got := w.Header().Get("Cache-Control"); got != services.FallbackCacheControl {
		t.Errorf("Cache-Control = %q", got)
	}

	if got := w.Header().Get("ETag"); got != "" {
		t.Errorf("ETag = %q, want none", got)
	}

	if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestImageNotFound(t *testing.T) {
	c := newController(&stubGallery{}, &stubSession{})

	w := httptest.NewRecorder()
	c.Image(w, imageRequest("asset1", services.SizeThumbnail))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
